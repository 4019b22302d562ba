package repository

import (
	"context"
	"errors"
	"time"

	"go-vet-clinic/internal/domain/entity"
	domainRepo "go-vet-clinic/internal/domain/repository"

	"gorm.io/gorm"
)

type labStudyRepository struct{}

func NewLabStudyRepository() domainRepo.LabStudyRepository {
	return &labStudyRepository{}
}

func (r *labStudyRepository) Create(ctx context.Context, db *gorm.DB, study *entity.LabStudy) error {
	return db.WithContext(ctx).Create(study).Error
}

func (r *labStudyRepository) FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.LabStudy, error) {
	var study entity.LabStudy
	err := db.WithContext(ctx).Scopes(scope.Filter("lab_studies.clinic_id")).Where("id = ?", id).First(&study).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &study, nil
}

func (r *labStudyRepository) FindByIDs(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) ([]entity.LabStudy, error) {
	var studies []entity.LabStudy
	if len(ids) == 0 {
		return studies, nil
	}
	err := db.WithContext(ctx).Scopes(scope.Filter("lab_studies.clinic_id")).Where("id IN ?", ids).Find(&studies).Error
	if err != nil {
		return nil, err
	}
	return studies, nil
}

func (r *labStudyRepository) FindByPatientID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, patientID uint) ([]entity.LabStudy, error) {
	var studies []entity.LabStudy
	err := db.WithContext(ctx).Scopes(scope.Filter("lab_studies.clinic_id")).
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&studies).Error
	if err != nil {
		return nil, err
	}
	return studies, nil
}

func (r *labStudyRepository) Complete(ctx context.Context, db *gorm.DB, id uint, results string, completedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.LabStudy{}).
		Where("id = ? AND status = ?", id, entity.LabStudyStatusPending).
		Updates(map[string]interface{}{
			"results":      results,
			"status":       entity.LabStudyStatusCompleted,
			"completed_at": completedAt,
		})
	return result.RowsAffected, result.Error
}
