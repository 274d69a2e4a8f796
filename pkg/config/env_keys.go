package config

const EnvPrefix = "SNACKSHACK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags (tests, error
// messages).
const (
	EnvAppEnv = "SNACKSHACK_APP_ENV"
	EnvPort   = "SNACKSHACK_APP_PORT"

	EnvDBDSN  = "SNACKSHACK_DB_DSN"
	EnvDBHost = "SNACKSHACK_DB_HOST"
	EnvDBUser = "SNACKSHACK_DB_USER"
	EnvDBName = "SNACKSHACK_DB_NAME"

	EnvRedisURL = "SNACKSHACK_REDIS_URL"

	EnvJWTSecret = "SNACKSHACK_JWT_SECRET"
	EnvJWTIssuer = "SNACKSHACK_JWT_ISSUER"

	EnvCheckoutSuccessURL = "SNACKSHACK_CHECKOUT_SUCCESS_URL"
	EnvCheckoutCancelURL  = "SNACKSHACK_CHECKOUT_CANCEL_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
