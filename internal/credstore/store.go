package credstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/medvault/portal/pkg/logger"
)

// Store persists the bearer credential in a single named slot on disk. The
// slot is overwritten wholesale on login and removed wholesale on logout or
// invalidation; a missing slot means "no credential", not an error. The store
// assumes a single process owner.
type Store struct {
	path   string
	logger *logger.Logger
}

// New creates a credential store backed by the given file path
func New(path string, log *logger.Logger) *Store {
	return &Store{
		path:   path,
		logger: log,
	}
}

// Load reads the persisted credential. Returns an empty string when no
// credential is stored.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read credential: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// Save overwrites the credential slot
func (s *Store) Save(credential string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(credential), 0o600); err != nil {
		return fmt.Errorf("failed to write credential: %w", err)
	}

	s.logger.Debug("Credential persisted")
	return nil
}

// Clear removes the credential slot. Clearing an empty slot is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove credential: %w", err)
	}

	s.logger.Debug("Credential purged")
	return nil
}
