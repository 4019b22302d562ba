package entity

import "gorm.io/gorm"

// TenantScope narrows reads and writes to the clinics a principal may see.
// The zero value is a restricted scope on clinic 0 and matches nothing, so
// scopes must come from the resolver.
type TenantScope struct {
	Unrestricted bool
	ClinicID     uint
}

// UnrestrictedScope is the cross-clinic scope of the super-tenant.
func UnrestrictedScope() TenantScope {
	return TenantScope{Unrestricted: true}
}

// ClinicScope restricts to a single clinic.
func ClinicScope(clinicID uint) TenantScope {
	return TenantScope{ClinicID: clinicID}
}

// Filter returns a gorm scope adding "<column> = clinic" for restricted scopes.
func (s TenantScope) Filter(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.Unrestricted {
			return db
		}
		return db.Where(column+" = ?", s.ClinicID)
	}
}

// Allows reports whether a row of clinicID is visible in this scope.
func (s TenantScope) Allows(clinicID uint) bool {
	return s.Unrestricted || s.ClinicID == clinicID
}

// ClinicForWrite picks the clinic a new row belongs to. Restricted scopes
// always write to their own clinic; a different requested clinic is reported
// as not allowed. Unrestricted scopes must name a clinic.
func (s TenantScope) ClinicForWrite(requested uint) (uint, bool) {
	if s.Unrestricted {
		return requested, requested != SuperTenantClinicID
	}
	if requested != SuperTenantClinicID && requested != s.ClinicID {
		return 0, false
	}
	return s.ClinicID, true
}
