package repository

import (
	"context"
	"errors"

	"go-vet-clinic/internal/domain/entity"
	domainRepo "go-vet-clinic/internal/domain/repository"

	"gorm.io/gorm"
)

type clinicRepository struct{}

func NewClinicRepository() domainRepo.ClinicRepository {
	return &clinicRepository{}
}

func (r *clinicRepository) Create(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	return db.WithContext(ctx).Create(clinic).Error
}

func (r *clinicRepository) FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := db.WithContext(ctx).Scopes(scope.Filter("clinics.id")).Where("id = ?", id).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) FindAll(ctx context.Context, db *gorm.DB, scope entity.TenantScope) ([]entity.Clinic, error) {
	var clinics []entity.Clinic
	err := db.WithContext(ctx).Scopes(scope.Filter("clinics.id")).Order("name ASC").Find(&clinics).Error
	if err != nil {
		return nil, err
	}
	return clinics, nil
}

// UpdateContact writes contact columns only; the clinic name never changes.
func (r *clinicRepository) UpdateContact(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	return db.WithContext(ctx).Model(clinic).
		Select("address", "phone", "email").
		Updates(map[string]interface{}{
			"address": clinic.Address,
			"phone":   clinic.Phone,
			"email":   clinic.Email,
		}).Error
}
