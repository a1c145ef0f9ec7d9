package logging

import (
	"encoding/json"
	"strings"
)

// credentialKeys are the JSON object keys RedactJSON blanks outright. None
// of this service's five tool schemas (add_task/list_tasks/update_task/
// complete_task/delete_task) ever declare a key like this — task_id, title,
// description, completed, search, limit, offset are the full vocabulary —
// so this is defense in depth against a caller smuggling a credential-shaped
// key into tool arguments or a future tool that takes one, not something
// that fires on ordinary traffic.
var credentialKeys = []string{
	"api_key", "apikey", "authorization", "auth", "token", "access_token",
	"refresh_token", "password", "secret_key", "secret", "bearer",
}

// freeTextKeys are this service's own user-authored free-text fields: task
// descriptions and chat messages. Callers may paste anything into either —
// addresses, phone numbers, one-time codes — so logs truncate rather than
// reproduce them in full, instead of redacting them outright the way a
// credential is.
var freeTextKeys = []string{"description", "message", "content"}

const freeTextLogLimit = 200

// RedactJSON takes a tool call's raw JSON arguments and returns a copy safe
// to write to the log stream: credential-shaped keys are blanked, and this
// service's free-text fields are truncated. Used by internal/agent around
// every tool invocation (spec.md §4.2, §9).
func RedactJSON(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw
	}
	sanitized := sanitizeValue(v)
	b, err := json.Marshal(sanitized)
	if err != nil {
		return raw
	}
	return b
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, vv := range val {
			switch {
			case isCredentialKey(k):
				val[k] = "[REDACTED]"
			case isFreeTextKey(k):
				val[k] = truncate(vv)
			default:
				val[k] = sanitizeValue(vv)
			}
		}
		return val
	case []any:
		for i := range val {
			val[i] = sanitizeValue(val[i])
		}
		return val
	default:
		return v
	}
}

func truncate(v any) any {
	s, ok := v.(string)
	if !ok || len(s) <= freeTextLogLimit {
		return v
	}
	return s[:freeTextLogLimit] + "...[truncated]"
}

func isCredentialKey(k string) bool {
	low := strings.ToLower(k)
	for _, s := range credentialKeys {
		if low == s || strings.Contains(low, s) {
			return true
		}
	}
	return false
}

func isFreeTextKey(k string) bool {
	low := strings.ToLower(k)
	for _, s := range freeTextKeys {
		if low == s {
			return true
		}
	}
	return false
}
