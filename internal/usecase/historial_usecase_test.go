package usecase

import (
	"testing"

	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHistorial_NewestFirstWithDetails(t *testing.T) {
	env := newTestEnv(t)
	patient := env.createPatient(t, env.ownerA, "Firulais")

	study, err := env.labStudies.RecordLabStudy(env.as(env.vetA), &dto.RecordLabStudyRequest{
		PatientCode: patient.PatientCode,
		StudyType:   "blood panel",
	})
	require.NoError(t, err)

	consultation := beginConsultation(t, env, patient.PatientCode)
	outcome, err := env.clinical.CompleteConsultation(env.as(env.vetA), consultation.ID, &dto.CompleteConsultationRequest{
		Diagnosis:               "anemia",
		RequiresHospitalization: true,
		HospitalizationMotive:   "transfusion",
	})
	require.NoError(t, err)

	historial, err := env.historial.GetHistorial(env.as(env.vetA), patient.PatientCode)
	require.NoError(t, err)

	assert.Equal(t, patient.PatientCode, historial.HistorialID)
	assert.Equal(t, entity.PatientStatusHospitalized, historial.Patient.Status)
	require.Equal(t, 3, historial.Total)
	require.Len(t, historial.Entries, 3)

	hospitalization := historial.Entries[0]
	assert.Equal(t, entity.RecordTypeHospitalization, hospitalization.RecordType)
	assert.Equal(t, outcome.Hospitalization.ID, hospitalization.RecordID)
	require.IsType(t, &dto.HospitalizationResponse{}, hospitalization.Detail)
	assert.Equal(t, "transfusion", hospitalization.Detail.(*dto.HospitalizationResponse).Motive)

	visit := historial.Entries[1]
	assert.Equal(t, entity.RecordTypeConsultation, visit.RecordType)
	require.IsType(t, &dto.ConsultationResponse{}, visit.Detail)
	assert.Equal(t, "anemia", visit.Detail.(*dto.ConsultationResponse).Diagnosis)

	lab := historial.Entries[2]
	assert.Equal(t, entity.RecordTypeLabStudy, lab.RecordType)
	assert.Equal(t, study.ID, lab.RecordID)
	require.IsType(t, &dto.LabStudyResponse{}, lab.Detail)
}

func TestGetHistorial_DischargeAddsNoEntry(t *testing.T) {
	env := newTestEnv(t)
	patient := env.createPatient(t, env.ownerA, "Firulais")

	hospitalization, err := env.clinical.OpenHospitalization(env.as(env.vetA), &dto.OpenHospitalizationRequest{
		PatientCode: patient.PatientCode,
		Motive:      "observation",
	})
	require.NoError(t, err)
	_, err = env.clinical.DischargePatient(env.as(env.vetA), hospitalization.ID, nil)
	require.NoError(t, err)

	historial, err := env.historial.GetHistorial(env.as(env.vetA), patient.PatientCode)
	require.NoError(t, err)
	require.Equal(t, 1, historial.Total)

	detail, ok := historial.Entries[0].Detail.(*dto.HospitalizationResponse)
	require.True(t, ok)
	assert.Equal(t, entity.HospitalizationStatusDischarged, detail.Status)
}

func TestGetHistorial_EmptyForNewPatient(t *testing.T) {
	env := newTestEnv(t)
	patient := env.createPatient(t, env.ownerA, "Firulais")

	historial, err := env.historial.GetHistorial(env.as(env.adminA), patient.PatientCode)
	require.NoError(t, err)
	assert.Zero(t, historial.Total)
	assert.Empty(t, historial.Entries)
}

func TestGetHistorial_AccessControl(t *testing.T) {
	env := newTestEnv(t)
	patient := env.createPatient(t, env.ownerA, "Firulais")

	_, err := env.historial.GetHistorial(env.as(env.vetB), patient.PatientCode)
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = env.historial.GetHistorial(env.as(env.superuser), patient.PatientCode)
	assert.ErrorIs(t, err, service.ErrMissingCapability)

	_, err = env.historial.GetHistorial(env.as(env.vetA), "7-99")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
