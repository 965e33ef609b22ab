package config

const (
	// EnvPrefix namespaces every environment variable the platform reads.
	EnvPrefix = "TRADEVISTA"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "TRADEVISTA_APP_ENV"
	EnvPort   = "TRADEVISTA_APP_PORT"
	EnvDBDSN  = "TRADEVISTA_DB_DSN"
	EnvDBHost = "TRADEVISTA_DB_HOST"
	EnvDBUser = "TRADEVISTA_DB_USER"
	EnvDBName = "TRADEVISTA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
