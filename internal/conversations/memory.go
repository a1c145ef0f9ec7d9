package conversations

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskchat/internal/storeerr"
)

// NewMemoryStore returns an in-memory Store for unit tests.
func NewMemoryStore() Store {
	return &memStore{
		conversations: map[string]Conversation{},
		messages:      map[string][]Message{},
	}
}

type memStore struct {
	mu            sync.Mutex
	conversations map[string]Conversation
	messages      map[string][]Message
}

func (s *memStore) CreateConversation(ctx context.Context, owner string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	c := Conversation{ID: uuid.NewString(), Owner: owner, CreatedAt: now, UpdatedAt: now}
	s.conversations[c.ID] = c
	return c, nil
}

func (s *memStore) GetConversation(ctx context.Context, owner, id string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok || c.Owner != owner {
		return Conversation{}, storeerr.ErrNotFound
	}
	return c, nil
}

func (s *memStore) AppendMessages(ctx context.Context, owner, conversationID string, drafts []Draft) ([]Message, error) {
	if len(drafts) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[conversationID]
	if !ok || c.Owner != owner {
		return nil, storeerr.ErrNotFound
	}

	now := time.Now().UTC()
	out := make([]Message, 0, len(drafts))
	for _, d := range drafts {
		m := Message{
			ID: uuid.NewString(), ConversationID: conversationID, Role: d.Role, Content: d.Content,
			ToolCalls: d.ToolCalls, ToolCallID: d.ToolCallID, ToolName: d.ToolName, CreatedAt: now,
		}
		out = append(out, m)
		now = now.Add(time.Microsecond)
	}
	s.messages[conversationID] = append(s.messages[conversationID], out...)
	c.UpdatedAt = time.Now().UTC()
	s.conversations[conversationID] = c
	return out, nil
}

func (s *memStore) ReadHistory(ctx context.Context, owner, conversationID string, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[conversationID]
	if !ok || c.Owner != owner {
		return nil, storeerr.ErrNotFound
	}
	if limit <= 0 {
		limit = 100
	}
	msgs := s.messages[conversationID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
