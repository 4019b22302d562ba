package service

import (
	"context"
	"io"
	"testing"

	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/pkg/apperror"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func principal(role entity.RoleName, clinicID uint) *entity.Principal {
	return &entity.Principal{UserID: 1, Role: role, ClinicID: clinicID}
}

func TestAuthorizer_DefaultRoles(t *testing.T) {
	authorizer := NewAuthorizer(DefaultRoles())

	tests := []struct {
		name       string
		principal  *entity.Principal
		capability entity.Capability
		want       bool
	}{
		{"superuser manages clinics", principal(entity.RoleSuperuser, 0), entity.CapManageClinics, true},
		{"superuser creates users", principal(entity.RoleSuperuser, 0), entity.CapCreateUsers, true},
		{"superuser has no clinical access", principal(entity.RoleSuperuser, 0), entity.CapManageConsultations, false},
		{"superuser cannot read historial", principal(entity.RoleSuperuser, 0), entity.CapViewHistorial, false},
		{"admin total grants audit", principal(entity.RoleAdministrative, 1), entity.CapViewAudit, true},
		{"admin total grants clinical", principal(entity.RoleAdministrative, 1), entity.CapManageHospitalization, true},
		{"vet begins consultations", principal(entity.RoleVeterinarian, 1), entity.CapManageConsultations, true},
		{"vet cannot read audit", principal(entity.RoleVeterinarian, 1), entity.CapViewAudit, false},
		{"vet cannot create users", principal(entity.RoleVeterinarian, 1), entity.CapCreateUsers, false},
		{"unknown capability", principal(entity.RoleAdministrative, 1), entity.Capability("launch_rockets"), false},
		{"unknown role", principal(entity.RoleName("JANITOR"), 1), entity.CapViewPatients, false},
		{"no principal", nil, entity.CapViewPatients, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authorizer.Authorize(tt.principal, tt.capability))
		})
	}
}

func TestAuthorizer_SuperuserCeilingIgnoresRoleRecord(t *testing.T) {
	authorizer := NewAuthorizer([]entity.Role{
		{
			RoleName:     entity.RoleSuperuser,
			Capabilities: entity.CapabilitySet{entity.CapAdminTotal, entity.CapManagePatients},
		},
	})

	root := principal(entity.RoleSuperuser, 0)
	assert.False(t, authorizer.Authorize(root, entity.CapManagePatients))
	assert.False(t, authorizer.Authorize(root, entity.CapViewAudit))
	assert.True(t, authorizer.Authorize(root, entity.CapManageClinics))
}

func TestAuthorizer_DropsUnknownEntries(t *testing.T) {
	authorizer := NewAuthorizer([]entity.Role{
		{RoleName: entity.RoleName("JANITOR"), Capabilities: entity.CapabilitySet{entity.CapViewPatients}},
		{RoleName: entity.RoleVeterinarian, Capabilities: entity.CapabilitySet{"teleport", entity.CapViewPatients}},
	})

	assert.Equal(t, entity.CapabilitySet{entity.CapViewPatients}, authorizer.Capabilities(entity.RoleVeterinarian))
	assert.Empty(t, authorizer.Capabilities(entity.RoleName("JANITOR")))
	assert.Empty(t, authorizer.Capabilities(entity.RoleAdministrative))
}

func TestAuthorizer_CapabilitiesReturnsCopy(t *testing.T) {
	authorizer := NewAuthorizer(DefaultRoles())

	caps := authorizer.Capabilities(entity.RoleVeterinarian)
	require.NotEmpty(t, caps)
	caps[0] = entity.CapAdminTotal

	assert.False(t, authorizer.Authorize(principal(entity.RoleVeterinarian, 1), entity.CapViewAudit))
}

func newGuard(metrics *Metrics) AccessGuard {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewAccessGuard(log, NewAuthorizer(DefaultRoles()), NewTenantScopeResolver(), metrics)
}

func TestAccessGuard_Unauthenticated(t *testing.T) {
	guard := newGuard(NewMetrics())

	_, _, err := guard.Authorize(context.Background(), entity.CapViewPatients)
	assert.ErrorIs(t, err, ErrNoPrincipal)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}

func TestAccessGuard_ResolvesScope(t *testing.T) {
	guard := newGuard(NewMetrics())

	ctx := entity.ContextWithPrincipal(context.Background(), principal(entity.RoleVeterinarian, 3))
	p, scope, err := guard.Authorize(ctx, entity.CapViewPatients)
	require.NoError(t, err)
	assert.Equal(t, uint(3), p.ClinicID)
	assert.Equal(t, entity.ClinicScope(3), scope)

	ctx = entity.ContextWithPrincipal(context.Background(), principal(entity.RoleSuperuser, 0))
	_, scope, err = guard.AuthorizeAny(ctx, entity.CapViewPatients, entity.CapManageClinics)
	require.NoError(t, err)
	assert.True(t, scope.Unrestricted)
}

func TestAccessGuard_DenialIsCounted(t *testing.T) {
	metrics := NewMetrics()
	guard := newGuard(metrics)

	ctx := entity.ContextWithPrincipal(context.Background(), principal(entity.RoleVeterinarian, 1))
	_, _, err := guard.Authorize(ctx, entity.CapViewAudit)
	assert.ErrorIs(t, err, ErrMissingCapability)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.denials.WithLabelValues(string(entity.CapViewAudit))))
}

func TestTenantScopeResolver(t *testing.T) {
	resolver := NewTenantScopeResolver()

	assert.Equal(t, entity.UnrestrictedScope(), resolver.Resolve(principal(entity.RoleSuperuser, 0)))
	assert.Equal(t, entity.ClinicScope(5), resolver.Resolve(principal(entity.RoleAdministrative, 5)))
}
