package config

// Config represents the persistent partdeck configuration stored as
// config.toml in the .partdeck/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int         `toml:"version"`
	Agent   AgentConfig `toml:"agent"`
	Serve   ServeConfig `toml:"serve"`
}

// AgentConfig holds settings for CLI commands that connect to a running
// agent (e.g. partdeck chat).
type AgentConfig struct {
	// Target is the agent base URL (scheme + host + port).
	Target string `toml:"target,omitempty"`
}

// ServeConfig holds settings for the bundled mock agent server.
type ServeConfig struct {
	Listen string `toml:"listen,omitempty"`

	// Scripts is a directory of .sse reply scripts. Empty means the
	// built-in canned replies only.
	Scripts string `toml:"scripts,omitempty"`

	// LogFile, when set, receives a JSON copy of the server log alongside
	// the pretty stdout output.
	LogFile string `toml:"log_file,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"agent.target": {
		get: func(c *Config) string { return c.Agent.Target },
		set: func(c *Config, v string) error { c.Agent.Target = v; return nil },
	},
	"serve.listen": {
		get: func(c *Config) string { return c.Serve.Listen },
		set: func(c *Config, v string) error { c.Serve.Listen = v; return nil },
	},
	"serve.scripts": {
		get: func(c *Config) string { return c.Serve.Scripts },
		set: func(c *Config, v string) error { c.Serve.Scripts = v; return nil },
	},
	"serve.log_file": {
		get: func(c *Config) string { return c.Serve.LogFile },
		set: func(c *Config, v string) error { c.Serve.LogFile = v; return nil },
	},
}
