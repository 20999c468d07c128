package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultTokenKey is the well-known key the token is persisted under
const DefaultTokenKey = "token"

// TokenStore persists one opaque token across process restarts
type TokenStore interface {
	// Load returns the persisted token or ErrNoPersistedToken
	Load() (string, error)
	Save(token string) error
	// Delete removes the persisted token; deleting nothing is not an error
	Delete() error
}

type tokenRecord struct {
	Token string `json:"token"`
}

// FileTokenStore keeps the token as <dir>/<key>.json, readable by the owner only
type FileTokenStore struct {
	dir string
	key string
	mu  sync.RWMutex
}

// NewFileTokenStore creates the state directory if needed
func NewFileTokenStore(dir, key string) (*FileTokenStore, error) {
	if key == "" {
		key = DefaultTokenKey
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileTokenStore{dir: dir, key: key}, nil
}

// Path returns the file backing the store
func (s *FileTokenStore) Path() string {
	return filepath.Join(s.dir, s.key+".json")
}

// Load reads the persisted token
func (s *FileTokenStore) Load() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoPersistedToken
		}
		return "", fmt.Errorf("read token file: %w", err)
	}

	var rec tokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("%w: decode token file: %v", ErrMalformedToken, err)
	}
	if rec.Token == "" {
		return "", ErrNoPersistedToken
	}

	return rec.Token, nil
}

// Save writes the token through a temp file and a rename so a crash never leaves half a token
func (s *FileTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(tokenRecord{Token: token})
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, s.key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod token file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename token file: %w", err)
	}

	return nil
}

// Delete removes the token file
func (s *FileTokenStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps the token in memory, for tests and ephemeral runs
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore returns a store pre-seeded with token (may be empty)
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

// Load returns the held token
func (m *MemoryTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNoPersistedToken
	}
	return m.token, nil
}

// Save replaces the held token
func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Delete clears the held token
func (m *MemoryTokenStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
