package conversations

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskchat/internal/storeerr"
)

// NewPostgresStore returns a Postgres-backed conversation Store.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

// InitSchema creates the conversations/messages tables and the indexes
// spec.md §6 names as required for scale. Idempotent. A package function
// rather than a Store method so callers don't need the concrete Postgres
// type just to run migrations at boot.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS conversations (
    id UUID PRIMARY KEY,
    owner TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS conversations_owner_updated_idx ON conversations(owner, updated_at DESC);

CREATE TABLE IF NOT EXISTS conversation_messages (
    id UUID PRIMARY KEY,
    conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    tool_calls JSONB,
    tool_call_id TEXT NOT NULL DEFAULT '',
    tool_name TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS conversation_messages_conv_created_idx ON conversation_messages(conversation_id, created_at ASC, id ASC);
`)
	return err
}

func (s *pgStore) CreateConversation(ctx context.Context, owner string) (Conversation, error) {
	id := uuid.NewString()
	row := s.pool.QueryRow(ctx, `
INSERT INTO conversations (id, owner)
VALUES ($1, $2)
RETURNING id, owner, title, created_at, updated_at`, id, owner)
	return scanConversation(row)
}

func scanConversation(row pgx.Row) (Conversation, error) {
	var c Conversation
	if err := row.Scan(&c.ID, &c.Owner, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Conversation{}, err
	}
	return c, nil
}

func (s *pgStore) GetConversation(ctx context.Context, owner, id string) (Conversation, error) {
	row := s.pool.QueryRow(ctx, `
SELECT id, owner, title, created_at, updated_at
FROM conversations
WHERE id = $1 AND owner = $2`, id, owner)
	c, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Conversation{}, storeerr.ErrNotFound
		}
		return Conversation{}, err
	}
	return c, nil
}

func (s *pgStore) AppendMessages(ctx context.Context, owner, conversationID string, drafts []Draft) ([]Message, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Row-lock the conversation so concurrent appends to the same
	// conversation serialize (spec.md §5): the second transaction blocks on
	// this SELECT ... FOR UPDATE until the first commits or rolls back.
	var dummyOwner string
	err = tx.QueryRow(ctx, `SELECT owner FROM conversations WHERE id = $1 AND owner = $2 FOR UPDATE`, conversationID, owner).Scan(&dummyOwner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storeerr.ErrNotFound
		}
		return nil, err
	}

	out := make([]Message, 0, len(drafts))
	now := time.Now().UTC()
	for _, d := range drafts {
		id := uuid.NewString()
		var toolCallsJSON []byte
		if len(d.ToolCalls) > 0 {
			toolCallsJSON, err = json.Marshal(d.ToolCalls)
			if err != nil {
				return nil, err
			}
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO conversation_messages (id, conversation_id, role, content, tool_calls, tool_call_id, tool_name, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, conversationID, string(d.Role), d.Content, toolCallsJSON, d.ToolCallID, d.ToolName, now); err != nil {
			return nil, err
		}
		out = append(out, Message{
			ID: id, ConversationID: conversationID, Role: d.Role, Content: d.Content,
			ToolCalls: d.ToolCalls, ToolCallID: d.ToolCallID, ToolName: d.ToolName, CreatedAt: now,
		})
		// Each row gets a strictly later timestamp so chronological order
		// within one append call is never ambiguous on (created_at, id).
		now = now.Add(time.Microsecond)
	}

	if _, err := tx.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, conversationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ReadHistory(ctx context.Context, owner, conversationID string, limit int) ([]Message, error) {
	if _, err := s.GetConversation(ctx, owner, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
SELECT id, conversation_id, role, content, tool_calls, tool_call_id, tool_name, created_at FROM (
    SELECT id, conversation_id, role, content, tool_calls, tool_call_id, tool_name, created_at
    FROM conversation_messages
    WHERE conversation_id = $1
    ORDER BY created_at DESC, id DESC
    LIMIT $2
) sub
ORDER BY created_at ASC, id ASC`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var toolCallsJSON []byte
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &toolCallsJSON, &m.ToolCallID, &m.ToolName, &m.CreatedAt); err != nil {
			return nil, err
		}
		if len(toolCallsJSON) > 0 {
			if err := json.Unmarshal(toolCallsJSON, &m.ToolCalls); err != nil {
				return nil, err
			}
		}
		out = append(out, m)
	}
	if out == nil {
		out = []Message{}
	}
	return out, rows.Err()
}
