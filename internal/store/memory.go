package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store for tests and ephemeral deployments.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*DeviceRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*DeviceRecord)}
}

// Get returns the record for the device, or ErrDeviceNotFound.
func (s *MemoryStore) Get(ctx context.Context, deviceID string) (*DeviceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[deviceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	return record.Clone(), nil
}

// Initialize registers the device if it doesn't exist yet.
func (s *MemoryStore) Initialize(ctx context.Context, record *DeviceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.DeviceID]; ok {
		return nil
	}
	s.records[record.DeviceID] = record.Clone()
	return nil
}

// AppendFirmwareRevision advances the device to newPath.
func (s *MemoryStore) AppendFirmwareRevision(ctx context.Context, deviceID, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[deviceID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	if n := len(record.VersionHistory); n > 0 && record.VersionHistory[n-1] == newPath {
		record.CurrentFirmwarePath = newPath
		return nil
	}

	record.CurrentFirmwarePath = newPath
	record.VersionHistory = append(record.VersionHistory, newPath)
	return nil
}
