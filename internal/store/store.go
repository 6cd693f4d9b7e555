package store

import (
	"context"
)

// SensorSpec describes a single sensor attached to a device.
type SensorSpec struct {
	Type string `json:"type"`
	Pin  int    `json:"pin"`
	Unit string `json:"unit,omitempty"`
}

// DeviceRecord is the persisted per-device metadata and firmware lineage.
// VersionHistory is append-only; entries are never edited in place.
type DeviceRecord struct {
	DeviceID            string                `json:"device_id"`
	CurrentFirmwarePath string                `json:"current_firmware_path"`
	Sensors             map[string]SensorSpec `json:"sensors"`
	VersionHistory      []string              `json:"version_history"`
}

// Clone returns a deep copy so callers can't mutate persisted state.
func (r *DeviceRecord) Clone() *DeviceRecord {
	if r == nil {
		return nil
	}
	out := &DeviceRecord{
		DeviceID:            r.DeviceID,
		CurrentFirmwarePath: r.CurrentFirmwarePath,
	}
	if r.Sensors != nil {
		out.Sensors = make(map[string]SensorSpec, len(r.Sensors))
		for k, v := range r.Sensors {
			out.Sensors[k] = v
		}
	}
	if r.VersionHistory != nil {
		out.VersionHistory = append([]string(nil), r.VersionHistory...)
	}
	return out
}

// Store is the durable mapping device_id -> DeviceRecord.
// Implementations must serialize read-modify-write sequences so that
// concurrent runs never lose updates.
type Store interface {
	// Get returns the record for the device, or ErrDeviceNotFound.
	Get(ctx context.Context, deviceID string) (*DeviceRecord, error)

	// Initialize registers the device with the given defaults.
	// It is idempotent: a no-op if the device already exists.
	Initialize(ctx context.Context, record *DeviceRecord) error

	// AppendFirmwareRevision atomically sets CurrentFirmwarePath and
	// appends newPath to VersionHistory. Re-appending the path already at
	// the head of history is a no-op, so a retried write can't duplicate
	// lineage. Returns ErrDeviceNotFound for unregistered devices.
	AppendFirmwareRevision(ctx context.Context, deviceID, newPath string) error
}
