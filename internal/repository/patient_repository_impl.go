package repository

import (
	"context"
	"errors"

	"go-vet-clinic/internal/domain/entity"
	domainRepo "go-vet-clinic/internal/domain/repository"

	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit("Owner").Create(patient).Error
}

func (r *patientRepository) FindByCode(ctx context.Context, db *gorm.DB, scope entity.TenantScope, code string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Scopes(scope.Filter("patients.clinic_id")).Where("patient_code = ?", code).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Scopes(scope.Filter("patients.clinic_id")).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) MaxSequence(ctx context.Context, db *gorm.DB, ownerID uint) (int, error) {
	var max int
	err := db.WithContext(ctx).Model(&entity.Patient{}).
		Select("COALESCE(MAX(sequence), 0)").
		Where("owner_id = ?", ownerID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *patientRepository) FindAll(ctx context.Context, db *gorm.DB, scope entity.TenantScope, filter *entity.PatientFilter) ([]entity.Patient, error) {
	var patients []entity.Patient
	query := db.WithContext(ctx).Scopes(scope.Filter("patients.clinic_id"))

	if filter != nil {
		if filter.OwnerID != 0 {
			query = query.Where("owner_id = ?", filter.OwnerID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Name != "" {
			query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
		}
	}

	err := query.Order("owner_id ASC, sequence ASC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// UpdateDetails writes descriptive fields only. Code, owner, clinic and
// status are never touched here.
func (r *patientRepository) UpdateDetails(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Model(patient).
		Select("name", "species", "breed", "sex", "birth_date", "weight_kg").
		Updates(map[string]interface{}{
			"name":       patient.Name,
			"species":    patient.Species,
			"breed":      patient.Breed,
			"sex":        patient.Sex,
			"birth_date": patient.BirthDate,
			"weight_kg":  patient.WeightKg,
		}).Error
}

func (r *patientRepository) TransitionStatus(ctx context.Context, db *gorm.DB, id uint, from, to entity.PatientStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Patient{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}
