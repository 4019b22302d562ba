package repository

import (
	"context"
	"errors"

	"go-vet-clinic/internal/domain/entity"
	domainRepo "go-vet-clinic/internal/domain/repository"

	"gorm.io/gorm"
)

type ownerRepository struct{}

func NewOwnerRepository() domainRepo.OwnerRepository {
	return &ownerRepository{}
}

func (r *ownerRepository) Create(ctx context.Context, db *gorm.DB, owner *entity.Owner) error {
	return db.WithContext(ctx).Omit("Clinic", "Patients").Create(owner).Error
}

func (r *ownerRepository) FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Owner, error) {
	var owner entity.Owner
	err := db.WithContext(ctx).Scopes(scope.Filter("owners.clinic_id")).Where("id = ?", id).First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}

func (r *ownerRepository) FindAll(ctx context.Context, db *gorm.DB, scope entity.TenantScope) ([]entity.Owner, error) {
	var owners []entity.Owner
	err := db.WithContext(ctx).Scopes(scope.Filter("owners.clinic_id")).Order("full_name ASC, id ASC").Find(&owners).Error
	if err != nil {
		return nil, err
	}
	return owners, nil
}

func (r *ownerRepository) UpdateContact(ctx context.Context, db *gorm.DB, owner *entity.Owner) error {
	return db.WithContext(ctx).Model(owner).
		Select("full_name", "phone", "email", "address").
		Updates(map[string]interface{}{
			"full_name": owner.FullName,
			"phone":     owner.Phone,
			"email":     owner.Email,
			"address":   owner.Address,
		}).Error
}

func (r *ownerRepository) RaisePatientSequence(ctx context.Context, db *gorm.DB, ownerID uint, floor int) error {
	return db.WithContext(ctx).Model(&entity.Owner{}).
		Where("id = ? AND patient_seq < ?", ownerID, floor).
		UpdateColumn("patient_seq", floor).Error
}

// NextPatientSequence increments the counter in place so concurrent callers
// serialize on the owner row until their transaction ends. It must run inside
// the transaction that inserts the patient.
func (r *ownerRepository) NextPatientSequence(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ownerID uint) (int, error) {
	result := db.WithContext(ctx).Model(&entity.Owner{}).
		Scopes(scope.Filter("owners.clinic_id")).
		Where("id = ?", ownerID).
		UpdateColumn("patient_seq", gorm.Expr("patient_seq + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}

	var seq int
	err := db.WithContext(ctx).Model(&entity.Owner{}).
		Select("patient_seq").
		Where("id = ?", ownerID).
		Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
