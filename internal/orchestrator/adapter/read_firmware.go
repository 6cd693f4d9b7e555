package adapter

import (
	"context"
	"errors"
	"fmt"

	provider "github.com/Cyclone1070/otagent/internal/provider/models"
	"github.com/Cyclone1070/otagent/internal/store"
)

type readFirmwareRequest struct {
	DeviceID string `mapstructure:"device_id"`
}

// NewReadFirmware creates the read_firmware tool. It returns the current
// firmware artifact content for a device.
func NewReadFirmware(deps Deps) Tool {
	logger := deps.Logger.With().Str("tool", "read_firmware").Logger()

	return NewBaseAdapter(
		"read_firmware",
		"Reads the current firmware code for a given device ID.",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"device_id": deviceIDProperty(),
			},
			Required: []string{"device_id"},
		},
		func(ctx context.Context, req readFirmwareRequest) (string, error) {
			logger.Debug().Str("device_id", req.DeviceID).Msg("reading firmware")

			record, err := deps.Store.Get(ctx, req.DeviceID)
			if err != nil {
				if errors.Is(err, store.ErrDeviceNotFound) {
					return "", fmt.Errorf("no firmware path found for device_id '%s'", req.DeviceID)
				}
				return "", err
			}
			if record.CurrentFirmwarePath == "" {
				return "", fmt.Errorf("no firmware path found for device_id '%s'", req.DeviceID)
			}

			content, err := deps.Firmware.Read(record.CurrentFirmwarePath)
			if err != nil {
				return "", fmt.Errorf("firmware file not found at path: %s", record.CurrentFirmwarePath)
			}

			logger.Debug().Str("path", record.CurrentFirmwarePath).Int("bytes", len(content)).Msg("firmware read")
			return content, nil
		},
	)
}
