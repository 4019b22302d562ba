package repository

import (
	"context"
	"time"

	"go-vet-clinic/internal/domain/entity"

	"gorm.io/gorm"
)

// QueueHighWater is the highest queue number issued for a clinic on a day.
type QueueHighWater struct {
	ClinicID       uint
	QueueDate      time.Time
	MaxQueueNumber int
}

type WaitingRoomRepository interface {
	Create(ctx context.Context, db *gorm.DB, entry *entity.WaitingRoomEntry) error
	FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.WaitingRoomEntry, error)
	// FindWaitingByPatientID returns the patient's waiting entry for the given day.
	FindWaitingByPatientID(ctx context.Context, db *gorm.DB, patientID uint, day time.Time) (*entity.WaitingRoomEntry, error)
	ExpireBefore(ctx context.Context, db *gorm.DB, patientID uint, day time.Time) (int64, error)
	FindWaiting(ctx context.Context, db *gorm.DB, scope entity.TenantScope, day time.Time) ([]entity.WaitingRoomEntry, error)
	// UpdateStatus moves a waiting entry out of the queue. Returns affected rows: 0 = no longer waiting.
	UpdateStatus(ctx context.Context, db *gorm.DB, id uint, to entity.WaitingStatus, consultationID *uint) (int64, error)
	MaxQueueNumbers(ctx context.Context, db *gorm.DB, since time.Time) ([]QueueHighWater, error)
	MaxQueueNumber(ctx context.Context, db *gorm.DB, clinicID uint, day time.Time) (int, error)
}
