package adapter

import (
	"context"
	"fmt"

	provider "github.com/Cyclone1070/otagent/internal/provider/models"
)

type triggerDeployRequest struct {
	DeviceID string `mapstructure:"device_id"`
}

// NewTriggerDeploy creates the trigger_deploy tool. It simulates the OTA
// flash handoff to the device. An unknown device degrades to the "N/A"
// placeholder instead of failing: the deploy step is advisory.
func NewTriggerDeploy(deps Deps) Tool {
	logger := deps.Logger.With().Str("tool", "trigger_deploy").Logger()

	return NewBaseAdapter(
		"trigger_deploy",
		"Triggers an OTA flash so the device updates to its current firmware.",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"device_id": deviceIDProperty(),
			},
			Required: []string{"device_id"},
		},
		func(ctx context.Context, req triggerDeployRequest) (string, error) {
			latest := "N/A"
			if record, err := deps.Store.Get(ctx, req.DeviceID); err == nil {
				latest = record.CurrentFirmwarePath
			}

			message := fmt.Sprintf("OTA flash triggered for device '%s'. Device will now update to: '%s'.", req.DeviceID, latest)
			logger.Info().Str("device_id", req.DeviceID).Str("firmware_path", latest).Msg("OTA flash triggered")
			return message, nil
		},
	)
}
