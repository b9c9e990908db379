package config

type Config interface {
	EnvConfig
	SpotifyConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Spotify
	Sessions
}

func New() Config {
	return mainConfig{}
}
