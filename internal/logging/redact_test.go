package logging

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRedactJSON_BlanksCredentialShapedKeyInToolArgs(t *testing.T) {
	in := json.RawMessage(`{"title":"buy milk","api_key":"sk-live-123"}`)
	out := RedactJSON(in)

	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["api_key"] != "[REDACTED]" {
		t.Errorf("api_key not redacted: %v", m["api_key"])
	}
	if m["title"] != "buy milk" {
		t.Errorf("title should be left alone, got: %v", m["title"])
	}
}

func TestRedactJSON_TruncatesLongTaskDescription(t *testing.T) {
	long := strings.Repeat("x", freeTextLogLimit+50)
	in, err := json.Marshal(map[string]any{"task_id": 1, "description": long})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(RedactJSON(in), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	desc, ok := m["description"].(string)
	if !ok {
		t.Fatalf("description missing or not a string: %v", m["description"])
	}
	if !strings.HasSuffix(desc, "...[truncated]") {
		t.Errorf("expected truncated description, got %q", desc)
	}
	if len(desc) >= len(long) {
		t.Errorf("description was not shortened")
	}
}

func TestRedactJSON_ShortDescriptionIsUntouched(t *testing.T) {
	in := json.RawMessage(`{"task_id":1,"description":"call the vet"}`)
	var m map[string]any
	if err := json.Unmarshal(RedactJSON(in), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["description"] != "call the vet" {
		t.Errorf("short description should be untouched, got %v", m["description"])
	}
}

func TestRedactJSON_NestedToolResultEnvelopeIsSanitized(t *testing.T) {
	in := json.RawMessage(`{"success":true,"task":{"title":"x","description":"y","token":"tok_abc"}}`)
	var m map[string]any
	if err := json.Unmarshal(RedactJSON(in), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	task, ok := m["task"].(map[string]any)
	if !ok {
		t.Fatalf("task missing or wrong type: %v", m["task"])
	}
	if task["token"] != "[REDACTED]" {
		t.Errorf("nested credential-shaped key not redacted: %v", task["token"])
	}
}

func TestRedactJSON_EmptyAndInvalidInputPassThrough(t *testing.T) {
	if got := RedactJSON(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	raw := json.RawMessage(`not json`)
	if got := RedactJSON(raw); string(got) != "not json" {
		t.Errorf("expected original bytes for invalid json, got %s", got)
	}
}
