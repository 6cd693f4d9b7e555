package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileStore persists the device registry as a single JSON document.
// Every read-modify-write runs under one mutex and commits by writing a
// temp file and renaming it over the registry, so concurrent runs can't
// interleave partial snapshots (the unconditional-overwrite race of naive
// whole-file stores).
type FileStore struct {
	path   string
	logger zerolog.Logger
	mu     chan struct{} // capacity-1 semaphore so Lock can respect ctx
}

// NewFileStore creates a FileStore backed by the JSON file at path.
// The file is created lazily on first write.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	mu := make(chan struct{}, 1)
	mu <- struct{}{}
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "store").Logger(),
		mu:     mu,
	}
}

func (s *FileStore) lock(ctx context.Context) error {
	select {
	case <-s.mu:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *FileStore) unlock() {
	s.mu <- struct{}{}
}

// Get returns the record for the device, or ErrDeviceNotFound.
func (s *FileStore) Get(ctx context.Context, deviceID string) (*DeviceRecord, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	record, ok := data[deviceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	return record.Clone(), nil
}

// Initialize registers the device if it doesn't exist yet.
func (s *FileStore) Initialize(ctx context.Context, record *DeviceRecord) error {
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := data[record.DeviceID]; ok {
		return nil
	}

	data[record.DeviceID] = record.Clone()
	if err := s.save(data); err != nil {
		return err
	}

	s.logger.Info().Str("device_id", record.DeviceID).Msg("device registered")
	return nil
}

// AppendFirmwareRevision advances the device to newPath and records it in
// the version history in one committed snapshot.
func (s *FileStore) AppendFirmwareRevision(ctx context.Context, deviceID, newPath string) error {
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	record, ok := data[deviceID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	// Retried identical append: already committed, nothing to do.
	if n := len(record.VersionHistory); n > 0 && record.VersionHistory[n-1] == newPath {
		record.CurrentFirmwarePath = newPath
		return nil
	}

	record.CurrentFirmwarePath = newPath
	record.VersionHistory = append(record.VersionHistory, newPath)

	if err := s.save(data); err != nil {
		return err
	}

	s.logger.Info().
		Str("device_id", deviceID).
		Str("firmware_path", newPath).
		Int("revisions", len(record.VersionHistory)).
		Msg("firmware revision appended")
	return nil
}

// load reads the registry snapshot. A missing file is an empty registry;
// unreadable or corrupt content is a StorageError.
func (s *FileStore) load() (map[string]*DeviceRecord, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*DeviceRecord), nil
		}
		return nil, &StorageError{Op: "read", Underlying: err}
	}

	data := make(map[string]*DeviceRecord)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &StorageError{Op: "decode", Underlying: err}
	}
	return data, nil
}

// save commits a snapshot via temp file + rename.
func (s *FileStore) save(data map[string]*DeviceRecord) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Underlying: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &StorageError{Op: "mkdir", Underlying: err}
	}

	tmp, err := os.CreateTemp(dir, ".registry-*.json")
	if err != nil {
		return &StorageError{Op: "write", Underlying: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: "write", Underlying: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "write", Underlying: err}
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "commit", Underlying: err}
	}
	return nil
}
