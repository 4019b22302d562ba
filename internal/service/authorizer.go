package service

import (
	"context"
	"fmt"

	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// superuserCapabilities is the fixed ceiling of the SUPERUSER role. Whatever
// the role record says, a superuser can only manage clinics and create users.
var superuserCapabilities = entity.CapabilitySet{
	entity.CapManageClinics,
	entity.CapCreateUsers,
}

// Authorizer answers capability checks from the role table. It is the only
// place capability semantics live.
type Authorizer interface {
	Authorize(principal *entity.Principal, capability entity.Capability) bool
	Capabilities(role entity.RoleName) entity.CapabilitySet
}

type roleAuthorizer struct {
	table map[entity.RoleName]entity.CapabilitySet
}

// DefaultRoles is the role table used when the roles table holds no rows.
func DefaultRoles() []entity.Role {
	return []entity.Role{
		{
			RoleName:     entity.RoleSuperuser,
			Description:  "Cross-clinic operator",
			Capabilities: entity.CapabilitySet{entity.CapManageClinics, entity.CapCreateUsers},
		},
		{
			RoleName:     entity.RoleAdministrative,
			Description:  "Clinic administration",
			Capabilities: entity.CapabilitySet{entity.CapAdminTotal},
		},
		{
			RoleName:    entity.RoleVeterinarian,
			Description: "Attending veterinarian",
			Capabilities: entity.CapabilitySet{
				entity.CapViewPatients,
				entity.CapManagePatients,
				entity.CapManageOwners,
				entity.CapManageWaitingRoom,
				entity.CapManageConsultations,
				entity.CapManageHospitalization,
				entity.CapManageLab,
				entity.CapViewHistorial,
			},
		},
	}
}

// NewAuthorizer builds the lookup table from role records. Unknown role names
// and unknown capabilities are ignored.
func NewAuthorizer(roles []entity.Role) Authorizer {
	table := make(map[entity.RoleName]entity.CapabilitySet, len(roles))
	for _, role := range roles {
		if !role.RoleName.Valid() {
			continue
		}
		caps := make(entity.CapabilitySet, 0, len(role.Capabilities))
		for _, c := range role.Capabilities {
			if c.Valid() {
				caps = append(caps, c)
			}
		}
		table[role.RoleName] = caps
	}
	table[entity.RoleSuperuser] = superuserCapabilities
	return &roleAuthorizer{table: table}
}

// LoadAuthorizer reads the persisted role table, falling back to the defaults
// when it is empty.
func LoadAuthorizer(ctx context.Context, db *gorm.DB, log *logrus.Logger, roleRepo repository.RoleRepository) (Authorizer, error) {
	roles, err := roleRepo.FindAll(ctx, db)
	if err != nil {
		log.Warnf("Failed to load roles: %+v", err)
		return nil, fmt.Errorf("load roles: %w", err)
	}
	if len(roles) == 0 {
		log.Info("No roles found, using default role table")
		roles = DefaultRoles()
	}
	return NewAuthorizer(roles), nil
}

func (a *roleAuthorizer) Authorize(principal *entity.Principal, capability entity.Capability) bool {
	if principal == nil || !capability.Valid() {
		return false
	}
	caps, ok := a.table[principal.Role]
	if !ok {
		return false
	}
	if caps.Contains(capability) {
		return true
	}
	return principal.Role != entity.RoleSuperuser && caps.Contains(entity.CapAdminTotal)
}

func (a *roleAuthorizer) Capabilities(role entity.RoleName) entity.CapabilitySet {
	caps := a.table[role]
	out := make(entity.CapabilitySet, len(caps))
	copy(out, caps)
	return out
}
