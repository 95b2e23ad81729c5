package config

const (
	defaultConfigPath     = "~/.config/admkit/config.toml"
	defaultLogDir         = "~/.local/share/admkit/logs"
	defaultFlowDB         = "~/.local/share/admkit/flows.db"
	defaultIndent         = 2
	defaultConvertWorkers = 4
	defaultOutputSuffix   = ".out.xml"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultRetentionDays  = 30
	maxIndent             = 8
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
			FlowDB: defaultFlowDB,
		},
		Writer: Writer{
			Indent: defaultIndent,
		},
		Convert: Convert{
			Workers:      defaultConvertWorkers,
			OutputSuffix: defaultOutputSuffix,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
