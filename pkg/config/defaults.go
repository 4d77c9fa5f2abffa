package config

const (
	defaultAgentTarget = "http://127.0.0.1:8001"
	defaultServeListen = ":8001"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Agent: AgentConfig{
			Target: defaultAgentTarget,
		},
		Serve: ServeConfig{
			Listen: defaultServeListen,
		},
	}
}
