package httpapi

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandler answers GET /healthz by pinging the database pool, matching
// the liveness route every service in the retrieval pack exposes.
type HealthHandler struct {
	Pool *pgxpool.Pool
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Pool.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
