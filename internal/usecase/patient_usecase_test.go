package usecase

import (
	"sort"
	"sync"
	"testing"

	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/service"
	"go-vet-clinic/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCreatePatient_AllocatesCodesPerOwner(t *testing.T) {
	env := newTestEnv(t)

	first := env.createPatient(t, env.ownerA, "Firulais")
	second := env.createPatient(t, env.ownerA, "Michi")
	other := env.createPatient(t, env.ownerB, "Rocky")

	assert.Equal(t, "7-1", first.PatientCode)
	assert.Equal(t, "7-2", second.PatientCode)
	assert.Equal(t, "8-1", other.PatientCode)

	assert.Equal(t, first.PatientCode, first.HistorialID)
	assert.Equal(t, entity.PatientStatusActive, first.Status)
	assert.Equal(t, env.clinicA.ID, first.ClinicID)
	assert.Equal(t, env.clinicB.ID, other.ClinicID)
	assert.Zero(t, env.historialCount(t, first.ID))
}

func TestCreatePatient_ConcurrentCreationsGetDistinctSequences(t *testing.T) {
	env := newTestEnv(t)

	const workers = 8
	var (
		mu    sync.Mutex
		codes []string
	)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			patient, err := env.patients.CreatePatient(env.as(env.vetA), &dto.CreatePatientRequest{
				OwnerID: env.ownerA.ID,
				Name:    "Litter",
				Species: "feline",
			})
			if err != nil {
				return err
			}
			mu.Lock()
			codes = append(codes, patient.PatientCode)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Strings(codes)
	expected := []string{"7-1", "7-2", "7-3", "7-4", "7-5", "7-6", "7-7", "7-8"}
	assert.Equal(t, expected, codes)

	var owner entity.Owner
	require.NoError(t, env.db.First(&owner, env.ownerA.ID).Error)
	assert.Equal(t, workers, owner.PatientSeq)
}

func TestCreatePatient_RetriesPastExistingCode(t *testing.T) {
	env := newTestEnv(t)

	// a row the owner's counter does not know about yet
	require.NoError(t, env.db.Omit("Owner").Create(&entity.Patient{
		PatientCode: "7-1",
		OwnerID:     env.ownerA.ID,
		Sequence:    1,
		ClinicID:    env.clinicA.ID,
		Name:        "Imported",
		Species:     "canine",
		Status:      entity.PatientStatusActive,
		HistorialID: "7-1",
	}).Error)

	patient := env.createPatient(t, env.ownerA, "Firulais")
	assert.Equal(t, "7-2", patient.PatientCode)
	assert.Equal(t, 2, patient.Sequence)

	var owner entity.Owner
	require.NoError(t, env.db.First(&owner, env.ownerA.ID).Error)
	assert.Equal(t, 2, owner.PatientSeq)

	next := env.createPatient(t, env.ownerA, "Michi")
	assert.Equal(t, "7-3", next.PatientCode)
}

func TestCreatePatient_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.as(env.vetA)

	t.Run("non positive weight", func(t *testing.T) {
		weight := decimal.NewFromInt(0)
		_, err := env.patients.CreatePatient(ctx, &dto.CreatePatientRequest{
			OwnerID:  env.ownerA.ID,
			Name:     "Toby",
			Species:  "canine",
			WeightKg: &weight,
		})
		assert.ErrorIs(t, err, ErrInvalidPatientWeight)
	})

	t.Run("missing species", func(t *testing.T) {
		_, err := env.patients.CreatePatient(ctx, &dto.CreatePatientRequest{
			OwnerID: env.ownerA.ID,
			Name:    "Toby",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := env.patients.CreatePatient(ctx, &dto.CreatePatientRequest{
			OwnerID: 999,
			Name:    "Toby",
			Species: "canine",
		})
		assert.ErrorIs(t, err, ErrOwnerNotFound)
	})

	t.Run("owner of another clinic", func(t *testing.T) {
		_, err := env.patients.CreatePatient(ctx, &dto.CreatePatientRequest{
			OwnerID: env.ownerB.ID,
			Name:    "Toby",
			Species: "canine",
		})
		assert.ErrorIs(t, err, ErrOwnerNotFound)

		var owner entity.Owner
		require.NoError(t, env.db.First(&owner, env.ownerB.ID).Error)
		assert.Zero(t, owner.PatientSeq)
	})
}

func TestCreatePatient_RequiresCapability(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.patients.CreatePatient(env.as(env.superuser), &dto.CreatePatientRequest{
		OwnerID: env.ownerA.ID,
		Name:    "Toby",
		Species: "canine",
	})
	assert.ErrorIs(t, err, service.ErrMissingCapability)
}

func TestGetPatient_IsolatedByClinic(t *testing.T) {
	env := newTestEnv(t)
	patient := env.createPatient(t, env.ownerA, "Firulais")

	got, err := env.patients.GetPatient(env.as(env.adminA), patient.PatientCode)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, got.ID)

	_, err = env.patients.GetPatient(env.as(env.vetB), patient.PatientCode)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestListPatients_Filters(t *testing.T) {
	env := newTestEnv(t)
	env.createPatient(t, env.ownerA, "Firulais")
	env.createPatient(t, env.ownerA, "Michi")
	env.createPatient(t, env.ownerB, "Rocky")

	all, err := env.patients.ListPatients(env.as(env.vetA), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	byName, err := env.patients.ListPatients(env.as(env.vetA), &dto.ListPatientsRequest{Name: "mich"})
	require.NoError(t, err)
	require.Equal(t, 1, byName.Total)
	assert.Equal(t, "7-2", byName.Patients[0].PatientCode)
}

func TestUpdatePatient_KeepsIdentityAndStatus(t *testing.T) {
	env := newTestEnv(t)
	patient := env.createPatient(t, env.ownerA, "Firulais")

	weight := decimal.RequireFromString("12.50")
	updated, err := env.patients.UpdatePatient(env.as(env.vetA), patient.PatientCode, &dto.UpdatePatientRequest{
		Name:     "Firulais II",
		Species:  "canine",
		Breed:    "mestizo",
		WeightKg: &weight,
	})
	require.NoError(t, err)

	assert.Equal(t, "Firulais II", updated.Name)
	assert.Equal(t, patient.PatientCode, updated.PatientCode)
	assert.Equal(t, patient.HistorialID, updated.HistorialID)
	assert.Equal(t, entity.PatientStatusActive, updated.Status)
	assert.True(t, updated.WeightKg.Valid)
	assert.True(t, weight.Equal(updated.WeightKg.Decimal))
}
