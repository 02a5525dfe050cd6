package domain

// API caller roles carried in the bearer token.
const (
	RoleAdmin  = "admin"  // every tenant, cross-tenant lookups
	RoleTenant = "tenant" // a single tenant named by the tenant_id claim
)
