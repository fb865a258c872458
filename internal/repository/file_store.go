package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/iliyamo/pdf-chat/internal/model"
)

// FileStore keeps the full account mapping in a single JSON document on
// disk: a top-level object of email → record.  Every mutation re-reads the
// file, mutates the mapping in memory and writes the whole mapping back.
// The mutex serializes those read-modify-write cycles so two concurrent
// registrations cannot overwrite each other's record.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates the parent directory if needed and returns a store
// backed by the given path.  The file itself is created lazily on the
// first mutation; a missing file reads as an empty mapping.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path}, nil
}

// load reads the full mapping.  A missing file is not an error.
func (s *FileStore) load() (map[string]model.Account, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.Account{}, nil
		}
		return nil, err
	}
	accounts := map[string]model.Account{}
	if err := json.Unmarshal(b, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// save overwrites the file with the full mapping in a single write.
func (s *FileStore) save(accounts map[string]model.Account) error {
	b, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

func (s *FileStore) Get(_ context.Context, email string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return model.Account{}, err
	}
	acct, ok := accounts[NormalizeEmail(email)]
	if !ok {
		return model.Account{}, ErrUnknownAccount
	}
	return acct, nil
}

func (s *FileStore) Create(_ context.Context, email string, acct model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return err
	}
	key := NormalizeEmail(email)
	if _, ok := accounts[key]; ok {
		return ErrDuplicateAccount
	}
	accounts[key] = acct
	return s.save(accounts)
}

func (s *FileStore) Update(_ context.Context, email string, acct model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return err
	}
	key := NormalizeEmail(email)
	if _, ok := accounts[key]; !ok {
		return ErrUnknownAccount
	}
	accounts[key] = acct
	return s.save(accounts)
}
