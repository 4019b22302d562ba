package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientStatus_NextStatus(t *testing.T) {
	tests := []struct {
		from   PatientStatus
		event  PatientEvent
		want   PatientStatus
		wantOK bool
	}{
		{PatientStatusActive, EventBeginConsultation, PatientStatusInConsultation, true},
		{PatientStatusInConsultation, EventCompleteConsultation, PatientStatusActive, true},
		{PatientStatusInConsultation, EventHospitalizeFromVisit, PatientStatusHospitalized, true},
		{PatientStatusActive, EventOpenHospitalization, PatientStatusHospitalized, true},
		{PatientStatusHospitalized, EventDischarge, PatientStatusActive, true},

		{PatientStatusInConsultation, EventBeginConsultation, "", false},
		{PatientStatusHospitalized, EventBeginConsultation, "", false},
		{PatientStatusActive, EventCompleteConsultation, "", false},
		{PatientStatusHospitalized, EventOpenHospitalization, "", false},
		{PatientStatusInConsultation, EventOpenHospitalization, "", false},
		{PatientStatusActive, EventDischarge, "", false},
		{PatientStatusInConsultation, EventDischarge, "", false},
		{PatientStatus("DECEASED"), EventDischarge, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			got, ok := tt.from.NextStatus(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatientStatus_Valid(t *testing.T) {
	assert.True(t, PatientStatusActive.Valid())
	assert.True(t, PatientStatusHospitalized.Valid())
	assert.False(t, PatientStatus("active").Valid())
}

func TestFormatPatientCode(t *testing.T) {
	assert.Equal(t, "7-1", FormatPatientCode(7, 1))
	assert.Equal(t, "120-34", FormatPatientCode(120, 34))
}

func TestTenantScope_ClinicForWrite(t *testing.T) {
	tests := []struct {
		name      string
		scope     TenantScope
		requested uint
		want      uint
		wantOK    bool
	}{
		{"restricted defaults to own clinic", ClinicScope(3), 0, 3, true},
		{"restricted naming own clinic", ClinicScope(3), 3, 3, true},
		{"restricted naming another clinic", ClinicScope(3), 4, 0, false},
		{"unrestricted naming a clinic", UnrestrictedScope(), 4, 4, true},
		{"unrestricted without clinic", UnrestrictedScope(), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.scope.ClinicForWrite(tt.requested)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTenantScope_Allows(t *testing.T) {
	assert.True(t, UnrestrictedScope().Allows(9))
	assert.True(t, ClinicScope(2).Allows(2))
	assert.False(t, ClinicScope(2).Allows(3))
	assert.False(t, TenantScope{}.Allows(3))
}

func TestRecordType_Valid(t *testing.T) {
	assert.True(t, RecordTypeConsultation.Valid())
	assert.True(t, RecordTypeHospitalization.Valid())
	assert.True(t, RecordTypeLabStudy.Valid())
	assert.False(t, RecordType("vaccination").Valid())
}

func TestClinicalRecords(t *testing.T) {
	records := []ClinicalRecord{
		&Consultation{ID: 1},
		&Hospitalization{ID: 2},
		&LabStudy{ID: 3},
	}
	types := []RecordType{RecordTypeConsultation, RecordTypeHospitalization, RecordTypeLabStudy}

	for i, record := range records {
		assert.Equal(t, types[i], record.RecordType())
		assert.Equal(t, uint(i+1), record.RecordID())
	}
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	_, ok = PrincipalFromContext(ContextWithPrincipal(context.Background(), nil))
	assert.False(t, ok)

	ctx := ContextWithPrincipal(context.Background(), &Principal{UserID: 4, Role: RoleSuperuser})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.True(t, p.IsSuperTenant())
}

func TestCapabilitySet_ValueScan(t *testing.T) {
	set := CapabilitySet{CapViewPatients, CapManageLab}

	value, err := set.Value()
	require.NoError(t, err)

	var scanned CapabilitySet
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, set, scanned)
	assert.True(t, scanned.Contains(CapManageLab))
	assert.False(t, scanned.Contains(CapViewAudit))
}

func TestQueueDay(t *testing.T) {
	local := time.Date(2026, 3, 15, 1, 30, 0, 0, time.FixedZone("UTC+3", 3*3600))
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), QueueDay(local))
}

func TestUser_Active(t *testing.T) {
	inactive := false
	assert.True(t, (&User{}).Active())
	assert.False(t, (&User{IsActive: &inactive}).Active())
	assert.True(t, (&User{Role: RoleVeterinarian}).IsVeterinarian())
}
