// internal/store/file_store.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/niceai/studio-backend/internal/idgen"
	"github.com/niceai/studio-backend/internal/models"
)

// FileStore keeps one JSON blob per storage key under a data directory.
// Writes go through a temp file and rename so a crash never leaves a
// half-written blob behind.
type FileStore struct {
	dir string
	ids idgen.Generator
}

func NewFileStore(dir string, ids idgen.Generator) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir, ids: ids}, nil
}

func (s *FileStore) path(key string) string {
	// Storage keys are generated uuids, but never trust them as path input.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
	return filepath.Join(s.dir, safe+".json")
}

func (s *FileStore) Load(_ context.Context, key string) *models.UserProfile {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).WithField("storage_key", key).Warn("Profile blob unreadable, starting as guest")
		}
		return NewGuestProfile(s.ids)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		logrus.WithError(err).WithField("storage_key", key).Warn("Profile blob corrupt, starting as guest")
		return NewGuestProfile(s.ids)
	}

	repairLoaded(&profile, s.ids)
	return &profile
}

func (s *FileStore) Save(_ context.Context, key string, profile *models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}

	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".profile-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp blob: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write profile blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close profile blob: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace profile blob: %w", err)
	}
	return nil
}
