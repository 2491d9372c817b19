package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "FOODCOURT"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)
