package auth

import "github.com/harune/tenant-tracker/internal/models"

// Principal is the resolved identity of the party making a request. It is
// built entirely from token claims as issued at login time; no database
// lookup happens on the request path, so a disabled user stays valid until
// the token expires (accepted 24h staleness window).
type Principal struct {
	UserID   uint64
	TenantID *uint64
	Role     models.Role
}

// IsSuperAdmin reports whether the principal operates at platform level.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == models.RoleSuperAdmin
}

// BelongsTo reports whether the principal is a member of the given tenant.
func (p Principal) BelongsTo(tenantID uint64) bool {
	return p.TenantID != nil && *p.TenantID == tenantID
}
