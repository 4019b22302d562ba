package entity

import "context"

// SuperTenantClinicID is the reserved clinic id of the cross-clinic scope.
const SuperTenantClinicID uint = 0

// Principal is the authenticated actor performing an action.
type Principal struct {
	UserID   uint
	Role     RoleName
	ClinicID uint
}

// IsSuperTenant reports whether the principal is bound to the cross-clinic scope.
func (p *Principal) IsSuperTenant() bool {
	return p.ClinicID == SuperTenantClinicID
}

type principalKey struct{}

// ContextWithPrincipal attaches p to ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the principal set by the transport layer.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}
