package repository

import (
	"context"
	"errors"
	"time"

	"go-vet-clinic/internal/domain/entity"
	domainRepo "go-vet-clinic/internal/domain/repository"

	"gorm.io/gorm"
)

type waitingRoomRepository struct{}

func NewWaitingRoomRepository() domainRepo.WaitingRoomRepository {
	return &waitingRoomRepository{}
}

func (r *waitingRoomRepository) Create(ctx context.Context, db *gorm.DB, entry *entity.WaitingRoomEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *waitingRoomRepository) FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.WaitingRoomEntry, error) {
	var entry entity.WaitingRoomEntry
	err := db.WithContext(ctx).Scopes(scope.Filter("waiting_room_entries.clinic_id")).Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *waitingRoomRepository) FindWaitingByPatientID(ctx context.Context, db *gorm.DB, patientID uint, day time.Time) (*entity.WaitingRoomEntry, error) {
	var entry entity.WaitingRoomEntry
	err := db.WithContext(ctx).
		Where("patient_id = ? AND queue_date = ? AND status = ?", patientID, entity.QueueDay(day), entity.WaitingStatusWaiting).
		Order("id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// ExpireBefore cancels the entries a patient left waiting on earlier days.
func (r *waitingRoomRepository) ExpireBefore(ctx context.Context, db *gorm.DB, patientID uint, day time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.WaitingRoomEntry{}).
		Where("patient_id = ? AND queue_date < ? AND status = ?", patientID, entity.QueueDay(day), entity.WaitingStatusWaiting).
		Update("status", entity.WaitingStatusCancelled)
	return result.RowsAffected, result.Error
}

// FindWaiting lists the queue of a day: urgent first, then by queue number.
func (r *waitingRoomRepository) FindWaiting(ctx context.Context, db *gorm.DB, scope entity.TenantScope, day time.Time) ([]entity.WaitingRoomEntry, error) {
	var entries []entity.WaitingRoomEntry
	err := db.WithContext(ctx).Scopes(scope.Filter("waiting_room_entries.clinic_id")).
		Where("queue_date = ? AND status = ?", entity.QueueDay(day), entity.WaitingStatusWaiting).
		Order("CASE WHEN priority = 'urgent' THEN 0 ELSE 1 END, queue_number ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *waitingRoomRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uint, to entity.WaitingStatus, consultationID *uint) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if consultationID != nil {
		updates["consultation_id"] = *consultationID
	}
	result := db.WithContext(ctx).Model(&entity.WaitingRoomEntry{}).
		Where("id = ? AND status = ?", id, entity.WaitingStatusWaiting).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *waitingRoomRepository) MaxQueueNumbers(ctx context.Context, db *gorm.DB, since time.Time) ([]domainRepo.QueueHighWater, error) {
	var rows []domainRepo.QueueHighWater
	err := db.WithContext(ctx).Model(&entity.WaitingRoomEntry{}).
		Select("clinic_id, queue_date, MAX(queue_number) AS max_queue_number").
		Where("queue_date >= ?", entity.QueueDay(since)).
		Group("clinic_id, queue_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *waitingRoomRepository) MaxQueueNumber(ctx context.Context, db *gorm.DB, clinicID uint, day time.Time) (int, error) {
	var max int
	err := db.WithContext(ctx).Model(&entity.WaitingRoomEntry{}).
		Select("COALESCE(MAX(queue_number), 0)").
		Where("clinic_id = ? AND queue_date = ?", clinicID, entity.QueueDay(day)).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}
