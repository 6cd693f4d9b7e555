package adapter

import (
	"github.com/Cyclone1070/otagent/internal/firmware"
	provider "github.com/Cyclone1070/otagent/internal/provider/models"
	"github.com/Cyclone1070/otagent/internal/store"
	"github.com/rs/zerolog"
)

// Deps holds the shared services the firmware tools operate on.
type Deps struct {
	Store    store.Store
	Firmware *firmware.Storage
	Logger   zerolog.Logger
}

// All returns the full tool set offered to the oracle.
func All(deps Deps) []Tool {
	return []Tool{
		NewReadFirmware(deps),
		NewWriteFirmware(deps),
		NewGetDeviceState(deps),
		NewTriggerDeploy(deps),
	}
}

// deviceIDProperty is the shared device_id parameter declaration.
func deviceIDProperty() provider.PropertySchema {
	return provider.PropertySchema{
		Type:        "string",
		Description: "The device identifier, e.g. 'device-001'",
	}
}
