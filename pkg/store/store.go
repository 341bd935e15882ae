// Package store implements the on-disk artifact cache. Each successfully
// fetched document is written to a single file under a configured root
// directory, named after the normalized identifier. Freshness is derived
// from the file's modification time, never stored.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrNotFound indicates no artifact exists at the requested path.
	ErrNotFound = errors.New("artifact not found")
)

const secondsPerDay = 86400

// Store manages cache artifacts below a single root directory.
type Store struct {
	root   string
	logger zerolog.Logger
}

// New creates a store rooted at the given directory. The directory is not
// created until EnsureRoot is called.
func New(root string, logger zerolog.Logger) *Store {
	return &Store{
		root:   root,
		logger: logger,
	}
}

// Root returns the configured root directory.
func (s *Store) Root() string {
	return s.root
}

// EnsureRoot creates the root directory if it does not exist. An already
// existing root is not an error.
func (s *Store) EnsureRoot() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create output root %s: %w", s.root, err)
	}
	return nil
}

// ArtifactPath returns the canonical file path for a normalized identifier.
func (s *Store) ArtifactPath(id string) string {
	return filepath.Join(s.root, id+".json")
}

// Exists reports whether any entry below the root has a path containing id.
//
// Matching is substring-based on the root-relative path rather than an
// exact filename match. This mirrors legacy behavior that downstream
// consumers depend on: an identifier whose digits occur anywhere inside
// another artifact's path counts as present.
func (s *Store) Exists(id string) bool {
	found := false
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: treat as absent rather than failing the scan.
			return fs.SkipDir
		}
		if path == s.root {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return nil
		}
		if strings.Contains(rel, id) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("root", s.root).Msg("Artifact scan failed")
		return false
	}
	return found
}

// AgeDays returns the age of the file at path in whole days, floor-divided
// from seconds since its last modification. Modification time is used
// because creation time is not reliably available on all platforms.
// Returns ErrNotFound if the path does not exist.
func (s *Store) AgeDays(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return ageInDays(time.Now().Unix() - info.ModTime().Unix()), nil
}

// ageInDays converts an age in seconds to whole days. Floor division only,
// so an age just short of a full day is still zero days.
func ageInDays(seconds int64) int64 {
	minutes := seconds / 60
	hours := minutes / 60
	return hours / 24
}

// Expired reports whether an artifact of the given age must be fetched
// again. An artifact exactly maxAgeDays old is still fresh.
func Expired(ageDays, maxAgeDays int64) bool {
	return ageDays > maxAgeDays
}

// Write creates or overwrites the artifact for id with the given bytes,
// returning the path written. The body is stored verbatim.
func (s *Store) Write(id string, data []byte) (string, error) {
	path := s.ArtifactPath(id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		ArtifactWriteErrors.Inc()
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}

	ArtifactWrites.Inc()
	ArtifactBytesWritten.Add(float64(len(data)))

	s.logger.Debug().
		Str("identifier", id).
		Str("path", path).
		Int("bytes", len(data)).
		Msg("Artifact written")

	return path, nil
}
