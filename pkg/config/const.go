package config

const (
	EnvPrefix = "portal"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv     = "PORTAL_APP_ENV"
	EnvAppPort    = "PORTAL_APP_PORT"
	EnvAppBaseURL = "PORTAL_APP_BASE_URL"
	EnvDBDSN      = "PORTAL_DB_DSN"
	EnvRedisURL   = "PORTAL_REDIS_URL"
	EnvJWTSecret  = "PORTAL_JWT_SECRET"
	EnvJWTIssuer  = "PORTAL_JWT_ISSUER"
	EnvSMTPHost   = "PORTAL_SMTP_HOST"
	EnvSMTPFrom   = "PORTAL_SMTP_FROM"
)
