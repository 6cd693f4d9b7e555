// Package firmware stores generated firmware artifacts on disk.
// Artifacts are immutable: every write creates a new versioned file under
// <root>/<device_id>/v<token>.cpp and nothing ever overwrites an existing
// version.
package firmware

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrArtifactNotFound signals a read of a missing firmware file.
var ErrArtifactNotFound = errors.New("firmware file not found")

const versionLayout = "20060102150405"

// Storage reads and writes firmware artifacts for devices.
type Storage struct {
	root   string
	logger zerolog.Logger

	mu        sync.Mutex
	lastToken int64 // last issued version token, tokens are strictly increasing
	now       func() time.Time
}

// NewStorage creates a Storage rooted at dir.
func NewStorage(dir string, logger zerolog.Logger) *Storage {
	return &Storage{
		root:   dir,
		logger: logger.With().Str("component", "firmware").Logger(),
		now:    time.Now,
	}
}

// Write persists code as a new firmware version for the device and
// returns the artifact path and its version string (e.g. "v20251113141016").
func (s *Storage) Write(deviceID, code string) (string, string, error) {
	token := s.nextToken()
	version := "v" + strconv.FormatInt(token, 10)

	dir := filepath.Join(s.root, deviceID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating firmware directory: %w", err)
	}

	path := filepath.Join(dir, version+".cpp")

	// O_EXCL guards immutability: a path collision is a bug, not a rewrite.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("creating firmware file: %w", err)
	}
	if _, err := f.WriteString(code); err != nil {
		f.Close()
		return "", "", fmt.Errorf("writing firmware file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", "", fmt.Errorf("writing firmware file: %w", err)
	}

	s.logger.Info().
		Str("device_id", deviceID).
		Str("version", version).
		Str("path", path).
		Msg("firmware artifact written")
	return path, version, nil
}

// Read returns the content of the firmware artifact at path.
func (s *Storage) Read(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return "", fmt.Errorf("reading firmware file: %w", err)
	}
	return string(raw), nil
}

// Root returns the storage root directory.
func (s *Storage) Root() string {
	return s.root
}

// nextToken derives a timestamp version token, bumped past the last issued
// one so rapid successive writes still get unique, increasing versions.
func (s *Storage) nextToken() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := strconv.ParseInt(s.now().Format(versionLayout), 10, 64)
	if err != nil || token <= s.lastToken {
		token = s.lastToken + 1
	}
	s.lastToken = token
	return token
}
