package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/otagent/internal/firmware"
	"github.com/Cyclone1070/otagent/internal/store"
)

// SeedDeviceID is the demo device registered on startup.
const SeedDeviceID = "device-001"

// seedFirmware is the v1.0 firmware the demo device starts with.
const seedFirmware = `// Firmware Version: 1.0
// Active Sensors: A, C, D
#include <Arduino.h>
void setup() {
    Serial.begin(115200);
    Serial.println("Device starting... Firmware v1.0");
}
void loop() {
    int sensor_a_value = analogRead(1);
    Serial.print("Sensor A: "); Serial.println(sensor_a_value);
    if (sensor_a_value > 100) { Serial.println("EVENT: sensor_A_threshold_exceeded"); }
    delay(5000);
}
`

// SeedDemoDevice registers device-001 with its v1.0 firmware and default
// sensor schema. Idempotent: an already-registered device and an existing
// v1.0 artifact are both left untouched.
func SeedDemoDevice(ctx context.Context, st store.Store, fw *firmware.Storage) error {
	dir := filepath.Join(fw.Root(), SeedDeviceID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating seed firmware directory: %w", err)
	}

	path := filepath.Join(dir, "v1.0.cpp")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(seedFirmware), 0o644); err != nil {
			return fmt.Errorf("writing seed firmware: %w", err)
		}
	}

	return st.Initialize(ctx, &store.DeviceRecord{
		DeviceID:            SeedDeviceID,
		CurrentFirmwarePath: path,
		Sensors: map[string]store.SensorSpec{
			"A": {Type: "analog", Pin: 1},
			"C": {Type: "analog", Pin: 3},
			"D": {Type: "digital", Pin: 4},
		},
		VersionHistory: []string{path},
	})
}
