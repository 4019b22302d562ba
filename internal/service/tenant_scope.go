package service

import "go-vet-clinic/internal/domain/entity"

// TenantScopeResolver derives the data-visibility filter of a principal.
type TenantScopeResolver interface {
	Resolve(principal *entity.Principal) entity.TenantScope
}

type tenantScopeResolver struct{}

func NewTenantScopeResolver() TenantScopeResolver {
	return &tenantScopeResolver{}
}

// Resolve maps the super-tenant clinic to an unrestricted scope and every other
// clinic to a filter on that clinic alone.
func (r *tenantScopeResolver) Resolve(principal *entity.Principal) entity.TenantScope {
	if principal.IsSuperTenant() {
		return entity.UnrestrictedScope()
	}
	return entity.ClinicScope(principal.ClinicID)
}
