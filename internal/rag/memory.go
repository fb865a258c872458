package rag

import "sync"

// Roles recorded in conversation memory.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of the conversation: a question or an answer.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Memory is the ordered record of prior turns.  It is created once per
// session and threaded through pipeline rebuilds unchanged, so history
// survives reindexing.  It never survives session teardown.
type Memory struct {
	mu    sync.Mutex
	turns []Turn
}

func NewMemory() *Memory { return &Memory{} }

// Append records one turn at the end of the conversation.
func (m *Memory) Append(role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, Turn{Role: role, Content: content})
}

// Turns returns a copy of the recorded conversation in order.
func (m *Memory) Turns() []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Len returns the number of recorded turns.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}
