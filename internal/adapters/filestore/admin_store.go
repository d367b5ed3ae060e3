package filestore

import (
	"RelayBot/internal/core/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// adminFile is the on-disk layout: {"admin_ids": [1, 2]}.
type adminFile struct {
	AdminIDs []int64 `json:"admin_ids"`
}

// adminStore keeps the admin list in a JSON file.
type adminStore struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

var _ ports.AdminStore = (*adminStore)(nil)

// NewAdminStore returns a store backed by path. The file is created on the
// first Save.
func NewAdminStore(path string, baseLogger *zerolog.Logger) ports.AdminStore {
	return &adminStore{
		path: path,
		log:  baseLogger.With().Str("component", "file_admin_store").Str("path", path).Logger(),
	}
}

// Load reads the file. A missing file is an empty list.
func (s *adminStore) Load(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info().Msg("Admin file not found, starting empty")
		return []int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read admin file: %w", err)
	}

	var f adminFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode admin file: %w", err)
	}
	if f.AdminIDs == nil {
		f.AdminIDs = []int64{}
	}
	s.log.Debug().Int("count", len(f.AdminIDs)).Msg("Admin file loaded")
	return f.AdminIDs, nil
}

// Save writes ids to a temp file and renames it over the old one.
func (s *adminStore) Save(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.MarshalIndent(adminFile{AdminIDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode admin file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create admin dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".admins-*.json")
	if err != nil {
		return fmt.Errorf("create temp admin file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write admin file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close admin file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace admin file: %w", err)
	}

	s.log.Info().Int("count", len(ids)).Msg("Admin file saved")
	return nil
}
