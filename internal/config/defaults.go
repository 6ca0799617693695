package config

const (
	defaultDataDir             = "~/.local/share/scormbridge"
	defaultLogDir              = "~/.local/share/scormbridge/logs"
	defaultConnectorAssetsDir  = "~/.local/share/scormbridge/connector-base"
	defaultAPIBind             = "127.0.0.1:8920"
	defaultReadTimeoutSeconds  = 30
	defaultWriteTimeoutSeconds = 120
	defaultMaxUploadMiB        = 512
	defaultPlayerURL           = "http://localhost:8080/player"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:            defaultDataDir,
			LogDir:             defaultLogDir,
			ConnectorAssetsDir: defaultConnectorAssetsDir,
			APIBind:            defaultAPIBind,
		},
		Server: Server{
			ReadTimeoutSeconds:  defaultReadTimeoutSeconds,
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
			MaxUploadMiB:        defaultMaxUploadMiB,
		},
		Connector: Connector{
			PlayerURL: defaultPlayerURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
