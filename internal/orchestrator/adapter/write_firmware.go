package adapter

import (
	"context"
	"errors"
	"fmt"

	provider "github.com/Cyclone1070/otagent/internal/provider/models"
	"github.com/Cyclone1070/otagent/internal/store"
)

type writeFirmwareRequest struct {
	DeviceID string `mapstructure:"device_id"`
	NewCode  string `mapstructure:"new_code"`
}

// NewWriteFirmware creates the write_firmware tool. It persists a new
// immutable firmware artifact and advances the device record. The device
// must already be registered: writing never creates device records.
func NewWriteFirmware(deps Deps) Tool {
	logger := deps.Logger.With().Str("tool", "write_firmware").Logger()

	return NewBaseAdapter(
		"write_firmware",
		"Writes new firmware code as a new version for a specific device.",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"device_id": deviceIDProperty(),
				"new_code": {
					Type:        "string",
					Description: "The complete firmware source code to persist",
				},
			},
			Required: []string{"device_id", "new_code"},
		},
		func(ctx context.Context, req writeFirmwareRequest) (string, error) {
			logger.Debug().Str("device_id", req.DeviceID).Int("bytes", len(req.NewCode)).Msg("writing firmware")

			// Refuse before creating an artifact nothing would reference.
			if _, err := deps.Store.Get(ctx, req.DeviceID); err != nil {
				if errors.Is(err, store.ErrDeviceNotFound) {
					return "", fmt.Errorf("device not found: '%s' must be registered before firmware can be written", req.DeviceID)
				}
				return "", err
			}

			path, version, err := deps.Firmware.Write(req.DeviceID, req.NewCode)
			if err != nil {
				return "", fmt.Errorf("error writing firmware: %w", err)
			}

			if err := deps.Store.AppendFirmwareRevision(ctx, req.DeviceID, path); err != nil {
				return "", fmt.Errorf("error recording firmware revision: %w", err)
			}

			return fmt.Sprintf("Successfully wrote new firmware version %s for device %s.", version, req.DeviceID), nil
		},
	)
}
