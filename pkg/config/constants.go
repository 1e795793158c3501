package config

// EnvPrefix scopes all environment variables consumed by envconfig.
const EnvPrefix = "SUPERMARKET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "SUPERMARKET_APP_ENV"
	EnvPort       = "SUPERMARKET_APP_PORT"
	EnvDBDSN      = "SUPERMARKET_DB_DSN"
	EnvDBHost     = "SUPERMARKET_DB_HOST"
	EnvDBUser     = "SUPERMARKET_DB_USER"
	EnvDBName     = "SUPERMARKET_DB_NAME"
	EnvRedisURL   = "SUPERMARKET_REDIS_URL"
	EnvJWTSecret  = "SUPERMARKET_JWT_SECRET"
	EnvJWTIssuer  = "SUPERMARKET_JWT_ISSUER"
	EnvJWTExpMins = "SUPERMARKET_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
