package myjellyfin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// TokenState is the durable MyJellyfin authentication state. The client
// identifier is minted once and reused so the cloud service sees one device
// across runs.
type TokenState struct {
	Token            string    `json:"token"`
	ClientIdentifier string    `json:"client_identifier"`
	Username         string    `json:"username"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TokenStore abstracts persistence for MyJellyfin authentication state.
type TokenStore interface {
	Load() (TokenState, error)
	Save(TokenState) error
}

// FileTokenStore writes token state to a JSON file with restricted
// permissions. A sibling lock file guards against concurrent writers from
// other processes.
type FileTokenStore struct {
	path string
	lock *flock.Flock
}

// NewFileTokenStore builds a FileTokenStore rooted at the provided path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Load reads token state from disk. A missing file resolves to an empty state.
func (s *FileTokenStore) Load() (TokenState, error) {
	if err := s.lock.RLock(); err != nil {
		return TokenState{}, fmt.Errorf("lock auth state: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TokenState{}, nil
		}
		return TokenState{}, fmt.Errorf("read auth state: %w", err)
	}
	var state TokenState
	if err := json.Unmarshal(data, &state); err != nil {
		return TokenState{}, fmt.Errorf("decode auth state: %w", err)
	}
	return state, nil
}

// Save persists token state to disk.
func (s *FileTokenStore) Save(state TokenState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure auth state directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock auth state: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	state.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode auth state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write auth state: %w", err)
	}
	return nil
}
