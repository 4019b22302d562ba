package repository

import (
	"context"

	"go-vet-clinic/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByCode(ctx context.Context, db *gorm.DB, scope entity.TenantScope, code string) (*entity.Patient, error)
	FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Patient, error)
	FindAll(ctx context.Context, db *gorm.DB, scope entity.TenantScope, filter *entity.PatientFilter) ([]entity.Patient, error)
	// MaxSequence returns the highest sequence stored for the owner, 0 when none.
	MaxSequence(ctx context.Context, db *gorm.DB, ownerID uint) (int, error)
	UpdateDetails(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	// TransitionStatus moves the patient from one status to another only if it
	// is still in "from". Returns affected rows: 0 means the patient moved on.
	TransitionStatus(ctx context.Context, db *gorm.DB, id uint, from, to entity.PatientStatus) (int64, error)
}
