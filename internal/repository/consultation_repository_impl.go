package repository

import (
	"context"
	"errors"

	"go-vet-clinic/internal/domain/entity"
	domainRepo "go-vet-clinic/internal/domain/repository"

	"gorm.io/gorm"
)

type consultationRepository struct{}

func NewConsultationRepository() domainRepo.ConsultationRepository {
	return &consultationRepository{}
}

func (r *consultationRepository) Create(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) error {
	return db.WithContext(ctx).Omit("Vet").Create(consultation).Error
}

func (r *consultationRepository) FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.WithContext(ctx).Scopes(scope.Filter("consultations.clinic_id")).Where("id = ?", id).First(&consultation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

func (r *consultationRepository) FindByIDs(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) ([]entity.Consultation, error) {
	var consultations []entity.Consultation
	if len(ids) == 0 {
		return consultations, nil
	}
	err := db.WithContext(ctx).Scopes(scope.Filter("consultations.clinic_id")).Where("id IN ?", ids).Find(&consultations).Error
	if err != nil {
		return nil, err
	}
	return consultations, nil
}

func (r *consultationRepository) FindByPatientID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, patientID uint) ([]entity.Consultation, error) {
	var consultations []entity.Consultation
	err := db.WithContext(ctx).Scopes(scope.Filter("consultations.clinic_id")).
		Where("patient_id = ?", patientID).
		Order("started_at DESC, id DESC").
		Find(&consultations).Error
	if err != nil {
		return nil, err
	}
	return consultations, nil
}

// Complete only matches open consultations, so a second completion affects no rows.
func (r *consultationRepository) Complete(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Consultation{}).
		Where("id = ? AND status = ?", consultation.ID, entity.ConsultationStatusOpen).
		Updates(map[string]interface{}{
			"diagnosis":          consultation.Diagnosis,
			"treatment":          consultation.Treatment,
			"temperature_c":      consultation.TemperatureC,
			"status":             entity.ConsultationStatusCompleted,
			"hospitalization_id": consultation.HospitalizationID,
			"completed_at":       consultation.CompletedAt,
		})
	return result.RowsAffected, result.Error
}
