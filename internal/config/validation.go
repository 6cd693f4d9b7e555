package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	if c.HTTP.Addr == "" {
		errs = append(errs, "http.addr must not be empty")
	}
	if c.Store.Path == "" {
		errs = append(errs, "store.path must not be empty")
	}
	if c.Firmware.Dir == "" {
		errs = append(errs, "firmware.dir must not be empty")
	}
	if c.Oracle.Model == "" {
		errs = append(errs, "oracle.model must not be empty")
	}
	if c.Oracle.Temperature < 0 || c.Oracle.Temperature > 2 {
		errs = append(errs, "oracle.temperature must be within [0, 2]")
	}
	if c.Agent.MaxRounds < 1 {
		errs = append(errs, "agent.max_rounds must be >= 1")
	}
	if c.Agent.RunTimeoutSeconds < 0 {
		errs = append(errs, "agent.run_timeout_seconds must be >= 0")
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, "log.level must be one of trace, debug, info, warn, error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
