package repository

import (
	"context"

	"go-vet-clinic/internal/domain/entity"
	domainRepo "go-vet-clinic/internal/domain/repository"

	"gorm.io/gorm"
)

type historialRepository struct{}

func NewHistorialRepository() domainRepo.HistorialRepository {
	return &historialRepository{}
}

func (r *historialRepository) Create(ctx context.Context, db *gorm.DB, entry *entity.HistorialEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

// FindByHistorialID returns entries newest first; id breaks ties within the same instant.
func (r *historialRepository) FindByHistorialID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, historialID string) ([]entity.HistorialEntry, error) {
	var entries []entity.HistorialEntry
	err := db.WithContext(ctx).Scopes(scope.Filter("historial_entries.clinic_id")).
		Where("historial_id = ?", historialID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *historialRepository) CountByPatientID(ctx context.Context, db *gorm.DB, patientID uint) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.HistorialEntry{}).Where("patient_id = ?", patientID).Count(&count).Error
	return count, err
}
