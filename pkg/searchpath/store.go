// pkg/searchpath/store.go
package searchpath

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateFile is the file name used inside the state directory
const StateFile = "searchpath.json"

// state is the on-disk form of a session search path
type state struct {
	Entries   []string `json:"entries"`
	UpdatedAt string   `json:"updated_at"`
}

// Store persists a session search path between CLI invocations
type Store struct {
	path string
}

// NewStore creates a store backed by <dir>/searchpath.json
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, StateFile)}
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved path. Without a state file the session starts from
// R_LIBS and R_LIBS_USER.
func (s *Store) Load() (*SearchPath, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return FromEnv(), nil
		}
		return nil, fmt.Errorf("reading search path state: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing search path state: %w", err)
	}

	return New(st.Entries...), nil
}

// Save writes sp to the state file
func (s *Store) Save(sp *SearchPath) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(state{
		Entries:   sp.Entries(),
		UpdatedAt: time.Now().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing search path state: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Reset removes the saved state so the next Load starts from the environment
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
