package service

import (
	"context"
	"io"
	"testing"
	"time"

	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/repository"
	"go-vet-clinic/pkg/apperror"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.WaitingRoomEntry{}, &entity.HistorialEntry{}))
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestQueueKey(t *testing.T) {
	day := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "waiting_room:queue:4:2026-03-14", QueueKey(4, day))

	local := time.Date(2026, 3, 15, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))
	assert.Equal(t, "waiting_room:queue:4:2026-03-14", QueueKey(4, local))
}

func TestCalculateTTL(t *testing.T) {
	today := entity.QueueDay(time.Now())
	ttl := calculateTTL(today)
	assert.Greater(t, ttl, 24*time.Hour)
	assert.LessOrEqual(t, ttl, 48*time.Hour)

	assert.Equal(t, time.Minute, calculateTTL(today.AddDate(0, 0, -5)))
}

func TestDatabaseQueueTicketer_NextTicket(t *testing.T) {
	db := openTestDB(t)
	metrics := NewMetrics()
	ticketer := NewDatabaseQueueTicketer(quietLogger(), repository.NewWaitingRoomRepository(), metrics)
	ctx := context.Background()
	day := entity.QueueDay(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	first, err := ticketer.NextTicket(ctx, db, 1, day)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	require.NoError(t, db.Create(&entity.WaitingRoomEntry{
		ClinicID:    1,
		QueueDate:   day,
		QueueNumber: 5,
		PatientID:   10,
		PatientCode: "3-1",
		Priority:    entity.WaitingPriorityNormal,
		Status:      entity.WaitingStatusCancelled,
	}).Error)

	next, err := ticketer.NextTicket(ctx, db, 1, day)
	require.NoError(t, err)
	assert.Equal(t, 6, next)

	otherClinic, err := ticketer.NextTicket(ctx, db, 2, day)
	require.NoError(t, err)
	assert.Equal(t, 1, otherClinic)

	nextDay, err := ticketer.NextTicket(ctx, db, 1, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, nextDay)

	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.queueTickets))
}

type fakeRecord struct {
	recordType entity.RecordType
	id         uint
}

func (r fakeRecord) RecordType() entity.RecordType { return r.recordType }
func (r fakeRecord) RecordID() uint                { return r.id }

func TestHistorialService_Append(t *testing.T) {
	db := openTestDB(t)
	metrics := NewMetrics()
	historial := NewHistorialService(quietLogger(), repository.NewHistorialRepository(), metrics)
	ctx := context.Background()

	patient := &entity.Patient{ID: 1, PatientCode: "7-1", HistorialID: "7-1", ClinicID: 2}

	entry, err := historial.Append(ctx, db, patient, fakeRecord{entity.RecordTypeConsultation, 11})
	require.NoError(t, err)
	assert.Equal(t, "7-1", entry.HistorialID)
	assert.Equal(t, uint(2), entry.ClinicID)
	assert.Equal(t, uint(11), entry.RecordID)

	_, err = historial.Append(ctx, db, patient, fakeRecord{entity.RecordTypeConsultation, 11})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = historial.Append(ctx, db, patient, fakeRecord{entity.RecordType("vaccination"), 12})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = historial.Append(ctx, db, patient, fakeRecord{entity.RecordTypeLabStudy, 0})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = historial.Append(ctx, db, nil, fakeRecord{entity.RecordTypeLabStudy, 3})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	var count int64
	require.NoError(t, db.Model(&entity.HistorialEntry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.historialAppends.WithLabelValues("consultation")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var metrics *Metrics
	assert.NotPanics(t, func() {
		metrics.ObserveTransition(entity.PatientStatusActive, entity.PatientStatusHospitalized)
		metrics.ObserveHistorialAppend(entity.RecordTypeLabStudy)
		metrics.ObserveDenial(entity.CapViewAudit)
		metrics.ObservePatientCreated()
		metrics.ObserveQueueTicket()
	})
}

func TestMetrics_TransitionsByLabel(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveTransition(entity.PatientStatusActive, entity.PatientStatusInConsultation)
	metrics.ObserveTransition(entity.PatientStatusActive, entity.PatientStatusInConsultation)
	metrics.ObserveTransition(entity.PatientStatusHospitalized, entity.PatientStatusActive)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.transitions.WithLabelValues("ACTIVE", "IN_CONSULTATION")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.transitions.WithLabelValues("HOSPITALIZED", "ACTIVE")))
}
