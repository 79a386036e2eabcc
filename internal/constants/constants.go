package constants

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Context keys
const (
	ContextKeyPrincipal = "principal"
)

// Auth
const (
	MinPasswordLength = 8
	TokenTTLHours     = 24
)

// Plan defaults applied at tenant registration
const (
	DefaultPlan        = "free"
	DefaultMaxUsers    = 5
	DefaultMaxProjects = 3
)
