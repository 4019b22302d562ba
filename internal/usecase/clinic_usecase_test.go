package usecase

import (
	"testing"

	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/service"
	"go-vet-clinic/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClinic(t *testing.T) {
	env := newTestEnv(t)

	clinic, err := env.clinics.CreateClinic(env.as(env.superuser), &dto.CreateClinicRequest{
		Name:  "Clinica Este",
		Phone: "555-0101",
	})
	require.NoError(t, err)
	assert.NotZero(t, clinic.ID)

	_, err = env.clinics.CreateClinic(env.as(env.adminA), &dto.CreateClinicRequest{Name: "Rogue Clinic"})
	assert.ErrorIs(t, err, ErrClinicCreateScope)

	_, err = env.clinics.CreateClinic(env.as(env.vetA), &dto.CreateClinicRequest{Name: "Rogue Clinic"})
	assert.ErrorIs(t, err, service.ErrMissingCapability)

	_, err = env.clinics.CreateClinic(env.as(env.superuser), &dto.CreateClinicRequest{Name: "X"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateClinicContact_KeepsName(t *testing.T) {
	env := newTestEnv(t)

	updated, err := env.clinics.UpdateClinicContact(env.as(env.superuser), env.clinicA.ID, &dto.UpdateClinicContactRequest{
		Address: "Av. Siempre Viva 742",
		Email:   "norte@vet.test",
	})
	require.NoError(t, err)
	assert.Equal(t, env.clinicA.Name, updated.Name)
	assert.Equal(t, "norte@vet.test", updated.Email)

	_, err = env.clinics.UpdateClinicContact(env.as(env.adminA), env.clinicB.ID, &dto.UpdateClinicContactRequest{})
	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestListClinics_Scoped(t *testing.T) {
	env := newTestEnv(t)

	all, err := env.clinics.ListClinics(env.as(env.superuser))
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	own, err := env.clinics.ListClinics(env.as(env.vetA))
	require.NoError(t, err)
	require.Equal(t, 1, own.Total)
	assert.Equal(t, env.clinicA.ID, own.Clinics[0].ID)
}

func TestOwners_TenantScoping(t *testing.T) {
	env := newTestEnv(t)

	owner, err := env.owners.CreateOwner(env.as(env.vetA), &dto.CreateOwnerRequest{FullName: "Marta Ruiz", Phone: "555-0199"})
	require.NoError(t, err)
	assert.Equal(t, env.clinicA.ID, owner.ClinicID)

	_, err = env.owners.CreateOwner(env.as(env.vetA), &dto.CreateOwnerRequest{ClinicID: env.clinicB.ID, FullName: "Marta Ruiz"})
	assert.ErrorIs(t, err, ErrClinicOutsideTenant)

	_, err = env.owners.GetOwner(env.as(env.vetB), owner.ID)
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	updated, err := env.owners.UpdateOwnerContact(env.as(env.adminA), owner.ID, &dto.UpdateOwnerContactRequest{FullName: "Marta Ruiz Paz"})
	require.NoError(t, err)
	assert.Equal(t, "Marta Ruiz Paz", updated.FullName)

	list, err := env.owners.ListOwners(env.as(env.vetA))
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)

	patient, err := env.patients.CreatePatient(env.as(env.vetA), &dto.CreatePatientRequest{
		OwnerID: owner.ID,
		Name:    "Nube",
		Species: "feline",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.FormatPatientCode(owner.ID, 1), patient.PatientCode)
}

func TestAuditLogs_ScopedAndCapabilityGated(t *testing.T) {
	env := newTestEnv(t)
	env.createPatient(t, env.ownerA, "Firulais")
	env.createPatient(t, env.ownerB, "Rocky")

	logs, err := env.auditLogs.GetAllAuditLogs(env.as(env.adminA))
	require.NoError(t, err)
	require.Equal(t, 1, logs.Total)
	assert.Equal(t, entity.AuditActionPatientCreate, logs.Logs[0].Action)
	assert.Equal(t, env.clinicA.ID, logs.Logs[0].ClinicID)
	require.NotNil(t, logs.Logs[0].UserID)
	assert.Equal(t, env.vetA.ID, *logs.Logs[0].UserID)

	got, err := env.auditLogs.GetAuditLog(env.as(env.adminA), logs.Logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, logs.Logs[0].ID, got.ID)

	_, err = env.auditLogs.GetAllAuditLogs(env.as(env.vetA))
	assert.ErrorIs(t, err, service.ErrMissingCapability)

	_, err = env.auditLogs.GetAuditLog(env.as(env.adminA), 9999)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
