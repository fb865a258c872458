// Package session holds the per-visitor ephemeral state: the logged-in
// identity, the accumulated document fragments, the built pipeline and the
// conversation memory.  State is keyed by an opaque session token, lives in
// process memory only and disappears on restart.
package session

import (
	"sync"

	"github.com/iliyamo/pdf-chat/internal/model"
	"github.com/iliyamo/pdf-chat/internal/rag"
	"github.com/iliyamo/pdf-chat/internal/utils"
)

// Session is one visitor's workspace.  Logout clears only the bound
// identity: documents, pipeline and memory deliberately survive so a
// re-login resumes where the conversation left off.
type Session struct {
	mu        sync.Mutex
	email     string
	fragments []model.Fragment
	pipeline  *rag.Pipeline
	memory    *rag.Memory
}

// Identity returns the bound account email, or "" when anonymous.
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// BindIdentity records a successful login.
func (s *Session) BindIdentity(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
}

// ClearIdentity implements logout.  Documents, pipeline and memory are
// intentionally left in place.
func (s *Session) ClearIdentity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = ""
}

// AddFragments appends extracted fragments to the collection.  Uploads are
// cumulative and never deduplicated; uploading the same file twice doubles
// its content in the next index.
func (s *Session) AddFragments(fragments []model.Fragment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments = append(s.fragments, fragments...)
}

// Fragments returns a copy of the accumulated collection in upload order.
func (s *Session) Fragments() []model.Fragment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Fragment, len(s.fragments))
	copy(out, s.fragments)
	return out
}

// FragmentCount returns the size of the collection.
func (s *Session) FragmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fragments)
}

// Pipeline returns the current answering pipeline, nil before any build.
func (s *Session) Pipeline() *rag.Pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline
}

// SetPipeline replaces the answering pipeline after a rebuild.
func (s *Session) SetPipeline(p *rag.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline = p
}

// Memory returns the session's conversation memory, creating it on first
// use.  The same memory instance is handed to every rebuild.
func (s *Session) Memory() *rag.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memory == nil {
		s.memory = rag.NewMemory()
	}
	return s.memory
}

// Store maps session tokens to sessions.  Process-local by design; there
// is no cross-instance session sharing.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: map[string]*Session{}}
}

// New creates a session under a fresh random token.
func (st *Store) New() (string, *Session, error) {
	token, err := utils.NewSessionToken()
	if err != nil {
		return "", nil, err
	}
	s := &Session{}
	st.mu.Lock()
	st.sessions[token] = s
	st.mu.Unlock()
	return token, s, nil
}

// Get returns the session for a token, or nil when unknown.
func (st *Store) Get(token string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[token]
}
