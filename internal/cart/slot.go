package cart

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ErrSlotEmpty is returned by Slot.Load when nothing has been saved under the key yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a durable key-value location holding one serialized record per key.
type Slot interface {
	// Load returns the bytes saved under key, or ErrSlotEmpty.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the bytes stored under key.
	Save(ctx context.Context, key string, data []byte) error
}

// fileSlot stores each key as <dir>/<key>.json on the local file system.
type fileSlot struct {
	dir    string
	logger zerolog.Logger
}

// NewFileSlot creates a slot backed by files in dir.
func NewFileSlot(dir string, logger zerolog.Logger) Slot {
	return &fileSlot{
		dir:    dir,
		logger: logger.With().Str("component", "cart-file-slot").Logger(),
	}
}

func (s *fileSlot) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the file for key.
func (s *fileSlot) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug().Str("file", path).Msg("cart file does not exist")
			return nil, ErrSlotEmpty
		}
		s.logger.Error().Err(err).Str("file", path).Msg("failed to read cart file")
		return nil, fmt.Errorf("failed to read cart file %s: %w", path, err)
	}

	return data, nil
}

// Save writes data to a temporary file and renames it over the previous one,
// so a crash never leaves a half-written record behind.
func (s *fileSlot) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cart directory %s: %w", s.dir, err)
	}

	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary cart file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cart file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to replace cart file")
		return fmt.Errorf("failed to replace cart file %s: %w", path, err)
	}

	s.logger.Debug().Str("file", path).Int("bytes", len(data)).Msg("cart file saved")

	return nil
}
