package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	provider "github.com/Cyclone1070/otagent/internal/provider/models"
	"github.com/Cyclone1070/otagent/internal/store"
)

type getDeviceStateRequest struct {
	DeviceID string `mapstructure:"device_id"`
}

// NewGetDeviceState creates the get_device_state tool. It renders the
// device record (sensor schema, current firmware, lineage) as JSON text.
func NewGetDeviceState(deps Deps) Tool {
	logger := deps.Logger.With().Str("tool", "get_device_state").Logger()

	return NewBaseAdapter(
		"get_device_state",
		"Retrieves the sensor schema and current configuration for a device.",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"device_id": deviceIDProperty(),
			},
			Required: []string{"device_id"},
		},
		func(ctx context.Context, req getDeviceStateRequest) (string, error) {
			logger.Debug().Str("device_id", req.DeviceID).Msg("getting device state")

			record, err := deps.Store.Get(ctx, req.DeviceID)
			if err != nil {
				if errors.Is(err, store.ErrDeviceNotFound) {
					return "", fmt.Errorf("no state found for device_id '%s'", req.DeviceID)
				}
				return "", err
			}

			raw, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return "", fmt.Errorf("error rendering device state: %w", err)
			}
			return string(raw), nil
		},
	)
}
