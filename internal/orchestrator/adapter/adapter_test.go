package adapter

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Cyclone1070/otagent/internal/firmware"
	"github.com/Cyclone1070/otagent/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	return Deps{
		Store:    store.NewMemoryStore(),
		Firmware: firmware.NewStorage(t.TempDir(), zerolog.Nop()),
		Logger:   zerolog.Nop(),
	}
}

func registerDevice(t *testing.T, deps Deps, deviceID, code string) string {
	t.Helper()
	path, _, err := deps.Firmware.Write(deviceID, code)
	require.NoError(t, err)
	require.NoError(t, deps.Store.Initialize(context.Background(), &store.DeviceRecord{
		DeviceID:            deviceID,
		CurrentFirmwarePath: path,
		Sensors: map[string]store.SensorSpec{
			"A": {Type: "analog", Pin: 1},
		},
		VersionHistory: []string{path},
	}))
	return path
}

func TestAll_RegistersFourTools(t *testing.T) {
	tools := All(testDeps(t))
	require.Len(t, tools, 4)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name())
		assert.NotEmpty(t, tool.Description())
		assert.NotNil(t, tool.Definition().Parameters)
	}
	assert.ElementsMatch(t, []string{"read_firmware", "write_firmware", "get_device_state", "trigger_deploy"}, names)
}

func TestReadFirmware(t *testing.T) {
	deps := testDeps(t)
	registerDevice(t, deps, "device-001", "void loop() {}")
	tool := NewReadFirmware(deps)

	got, err := tool.Execute(context.Background(), map[string]any{"device_id": "device-001"})
	require.NoError(t, err)
	assert.Equal(t, "void loop() {}", got)
}

func TestReadFirmware_UnknownDevice(t *testing.T) {
	tool := NewReadFirmware(testDeps(t))

	_, err := tool.Execute(context.Background(), map[string]any{"device_id": "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no firmware path found for device_id 'ghost'")
}

func TestReadFirmware_MissingArtifact(t *testing.T) {
	deps := testDeps(t)
	require.NoError(t, deps.Store.Initialize(context.Background(), &store.DeviceRecord{
		DeviceID:            "device-001",
		CurrentFirmwarePath: "firmware/device-001/vanished.cpp",
		VersionHistory:      []string{"firmware/device-001/vanished.cpp"},
	}))
	tool := NewReadFirmware(deps)

	_, err := tool.Execute(context.Background(), map[string]any{"device_id": "device-001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "firmware file not found at path")
}

func TestWriteFirmware_RoundTrip(t *testing.T) {
	deps := testDeps(t)
	registerDevice(t, deps, "device-001", "old code")

	writeTool := NewWriteFirmware(deps)
	readTool := NewReadFirmware(deps)

	const newCode = "// Firmware Version: 2.0\nvoid loop() { /* new */ }"
	out, err := writeTool.Execute(context.Background(), map[string]any{
		"device_id": "device-001",
		"new_code":  newCode,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully wrote new firmware version")
	assert.Contains(t, out, "device-001")

	// Writing advanced the record; reading returns the new artifact
	got, err := readTool.Execute(context.Background(), map[string]any{"device_id": "device-001"})
	require.NoError(t, err)
	assert.Equal(t, newCode, got)

	record, err := deps.Store.Get(context.Background(), "device-001")
	require.NoError(t, err)
	assert.Len(t, record.VersionHistory, 2)
}

func TestWriteFirmware_UnregisteredDeviceNotCreated(t *testing.T) {
	deps := testDeps(t)
	tool := NewWriteFirmware(deps)

	_, err := tool.Execute(context.Background(), map[string]any{
		"device_id": "ghost",
		"new_code":  "code",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device not found")

	// The failed write must not have registered the device
	_, err = deps.Store.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrDeviceNotFound)
}

func TestGetDeviceState(t *testing.T) {
	deps := testDeps(t)
	path := registerDevice(t, deps, "device-001", "code")
	tool := NewGetDeviceState(deps)

	got, err := tool.Execute(context.Background(), map[string]any{"device_id": "device-001"})
	require.NoError(t, err)

	var record store.DeviceRecord
	require.NoError(t, json.Unmarshal([]byte(got), &record))
	assert.Equal(t, "device-001", record.DeviceID)
	assert.Equal(t, path, record.CurrentFirmwarePath)
	assert.Contains(t, record.Sensors, "A")
}

func TestGetDeviceState_NotFound(t *testing.T) {
	tool := NewGetDeviceState(testDeps(t))

	_, err := tool.Execute(context.Background(), map[string]any{"device_id": "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no state found for device_id 'ghost'")
}

func TestTriggerDeploy(t *testing.T) {
	deps := testDeps(t)
	path := registerDevice(t, deps, "device-001", "code")
	tool := NewTriggerDeploy(deps)

	got, err := tool.Execute(context.Background(), map[string]any{"device_id": "device-001"})
	require.NoError(t, err)
	assert.Contains(t, got, "OTA flash triggered for device 'device-001'")
	assert.Contains(t, got, path)
}

func TestTriggerDeploy_UnknownDevicePlaceholder(t *testing.T) {
	tool := NewTriggerDeploy(testDeps(t))

	got, err := tool.Execute(context.Background(), map[string]any{"device_id": "ghost"})
	require.NoError(t, err)
	assert.Contains(t, got, "'N/A'")
}

func TestExecute_SchemaRejectsBadArguments(t *testing.T) {
	deps := testDeps(t)
	registerDevice(t, deps, "device-001", "code")

	cases := []struct {
		name string
		tool Tool
		args map[string]any
	}{
		{"missing device_id", NewReadFirmware(deps), map[string]any{}},
		{"nil args", NewGetDeviceState(deps), nil},
		{"wrong type", NewReadFirmware(deps), map[string]any{"device_id": 42}},
		{"missing new_code", NewWriteFirmware(deps), map[string]any{"device_id": "device-001"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.tool.Execute(context.Background(), tc.args)
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "invalid arguments"), "got: %v", err)
		})
	}
}
