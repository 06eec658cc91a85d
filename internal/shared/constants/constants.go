package constants

// Environment names
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Database table names
const (
	TableAnonymousIdentities = "anonymous_identities"
	TableDeviceLinks         = "device_links"
)

// HeaderDeviceID carries the device identifier on requests that touch
// identity-scoped data, and on every response that establishes or changes it.
const HeaderDeviceID = "X-Device-ID"
