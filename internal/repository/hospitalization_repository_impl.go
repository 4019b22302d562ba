package repository

import (
	"context"
	"errors"
	"time"

	"go-vet-clinic/internal/domain/entity"
	domainRepo "go-vet-clinic/internal/domain/repository"

	"gorm.io/gorm"
)

type hospitalizationRepository struct{}

func NewHospitalizationRepository() domainRepo.HospitalizationRepository {
	return &hospitalizationRepository{}
}

func (r *hospitalizationRepository) Create(ctx context.Context, db *gorm.DB, hospitalization *entity.Hospitalization) error {
	return db.WithContext(ctx).Omit("Vet").Create(hospitalization).Error
}

func (r *hospitalizationRepository) FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Hospitalization, error) {
	var hospitalization entity.Hospitalization
	err := db.WithContext(ctx).Scopes(scope.Filter("hospitalizations.clinic_id")).Where("id = ?", id).First(&hospitalization).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hospitalization, nil
}

func (r *hospitalizationRepository) FindByIDs(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) ([]entity.Hospitalization, error) {
	var hospitalizations []entity.Hospitalization
	if len(ids) == 0 {
		return hospitalizations, nil
	}
	err := db.WithContext(ctx).Scopes(scope.Filter("hospitalizations.clinic_id")).Where("id IN ?", ids).Find(&hospitalizations).Error
	if err != nil {
		return nil, err
	}
	return hospitalizations, nil
}

func (r *hospitalizationRepository) FindActive(ctx context.Context, db *gorm.DB, scope entity.TenantScope) ([]entity.Hospitalization, error) {
	var hospitalizations []entity.Hospitalization
	err := db.WithContext(ctx).Scopes(scope.Filter("hospitalizations.clinic_id")).
		Where("status = ?", entity.HospitalizationStatusActive).
		Order("start_time ASC, id ASC").
		Find(&hospitalizations).Error
	if err != nil {
		return nil, err
	}
	return hospitalizations, nil
}

func (r *hospitalizationRepository) Discharge(ctx context.Context, db *gorm.DB, id uint, endTime time.Time, notes string) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Hospitalization{}).
		Where("id = ? AND status = ?", id, entity.HospitalizationStatusActive).
		Updates(map[string]interface{}{
			"status":          entity.HospitalizationStatusDischarged,
			"end_time":        endTime,
			"discharge_notes": notes,
		})
	return result.RowsAffected, result.Error
}
