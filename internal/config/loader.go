package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from defaults, an optional otagent.yaml in the
// working directory, and OTAGENT_* environment overrides (e.g.
// OTAGENT_HTTP_ADDR, OTAGENT_AGENT_MAX_ROUNDS). File values override
// defaults; environment overrides both.
func Load() (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	v.SetConfigName("otagent")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("OTAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine: defaults + env apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every default so AutomaticEnv can override keys
// that never appear in a config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("firmware.dir", cfg.Firmware.Dir)
	v.SetDefault("oracle.model", cfg.Oracle.Model)
	v.SetDefault("oracle.temperature", cfg.Oracle.Temperature)
	v.SetDefault("agent.max_rounds", cfg.Agent.MaxRounds)
	v.SetDefault("agent.run_timeout_seconds", cfg.Agent.RunTimeoutSeconds)
	v.SetDefault("log.level", cfg.Log.Level)
}
