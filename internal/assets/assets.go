// Package assets serves the piece images drawn by the board view.
package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Store loads images from a directory and caches them by name.
type Store struct {
	dir    string
	mu     sync.RWMutex
	cache  map[string][]byte
	logger zerolog.Logger
}

func NewStore(dir string, logger zerolog.Logger) *Store {
	return &Store{
		dir:    dir,
		cache:  make(map[string][]byte),
		logger: logger,
	}
}

// Image returns the image bytes for name, such as "white_queen.png". A
// missing or unreadable image yields nil. name may alias a request buffer, so
// the cache keeps its own copy.
func (s *Store) Image(name string) []byte {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return nil
	}

	s.mu.RLock()
	img, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return img
	}

	img, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("image", name).Msg("failed to read image")
		}
		return nil
	}
	s.mu.Lock()
	s.cache[strings.Clone(name)] = img
	s.mu.Unlock()
	return img
}

// Name is the file name used for a piece image.
func Name(side, kind string) string {
	return side + "_" + kind + ".png"
}
