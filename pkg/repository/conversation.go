package repository

import (
	"sync"

	"github.com/yqyati/windy/pkg/domain"
)

// conversationRepository holds one chat session's history in memory. The
// system prompt, when set, is pinned at index 0 and survives trimming; older
// turns are dropped once the history exceeds maxHistory.
type conversationRepository struct {
	mu           sync.RWMutex
	systemPrompt string
	messages     []domain.ChatMessage
	maxHistory   int
}

func NewConversationRepository(systemPrompt string, maxHistory int) *conversationRepository {
	return &conversationRepository{
		systemPrompt: systemPrompt,
		maxHistory:   maxHistory,
	}
}

func (c *conversationRepository) Append(msg domain.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)

	if c.maxHistory > 0 && len(c.messages) > c.maxHistory {
		c.messages = c.messages[len(c.messages)-c.maxHistory:]
	}
}

// RemoveLast drops the most recent turn. The pinned system prompt is not a
// stored turn and is unaffected.
func (c *conversationRepository) RemoveLast() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := len(c.messages); n > 0 {
		c.messages = c.messages[:n-1]
	}
}

// Messages returns a copy of the history, system prompt first.
func (c *conversationRepository) Messages() []domain.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.ChatMessage, 0, len(c.messages)+1)
	if c.systemPrompt != "" {
		out = append(out, domain.TextMessage(domain.RoleSystem, c.systemPrompt))
	}
	return append(out, c.messages...)
}

func (c *conversationRepository) SetSystemPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.systemPrompt = prompt
}

func (c *conversationRepository) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = nil
}
