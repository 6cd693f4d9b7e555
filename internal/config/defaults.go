package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via an
// optional otagent.yaml or OTAGENT_* environment variables.
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Store    StoreConfig    `mapstructure:"store"`
	Firmware FirmwareConfig `mapstructure:"firmware"`
	Oracle   OracleConfig   `mapstructure:"oracle"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Log      LogConfig      `mapstructure:"log"`
}

// HTTPConfig configures the inbound HTTP surface.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"` // Default: ":5001"
}

// StoreConfig configures the device registry.
type StoreConfig struct {
	Path string `mapstructure:"path"` // Default: "db.json"
}

// FirmwareConfig configures artifact storage.
type FirmwareConfig struct {
	Dir string `mapstructure:"dir"` // Default: "firmware"
}

// OracleConfig configures the decision service.
type OracleConfig struct {
	Model       string  `mapstructure:"model"`       // Default: "gemini-2.0-flash"
	Temperature float32 `mapstructure:"temperature"` // Default: 0.2
}

// AgentConfig configures run behavior.
type AgentConfig struct {
	MaxRounds         int `mapstructure:"max_rounds"`          // Default: 10
	RunTimeoutSeconds int `mapstructure:"run_timeout_seconds"` // Default: 300; 0 disables
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `mapstructure:"level"` // Default: "info"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HTTP:     HTTPConfig{Addr: ":5001"},
		Store:    StoreConfig{Path: "db.json"},
		Firmware: FirmwareConfig{Dir: "firmware"},
		Oracle: OracleConfig{
			Model:       "gemini-2.0-flash",
			Temperature: 0.2,
		},
		Agent: AgentConfig{
			MaxRounds:         10,
			RunTimeoutSeconds: 300,
		},
		Log: LogConfig{Level: "info"},
	}
}
