package config

type Config interface {
	EnvConfig
	CorsConfig
	TokenConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Token
}

func New() Config {
	return mainConfig{}
}
