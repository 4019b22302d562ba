package repository

import (
	"context"

	"go-vet-clinic/internal/domain/entity"

	"gorm.io/gorm"
)

type OwnerRepository interface {
	Create(ctx context.Context, db *gorm.DB, owner *entity.Owner) error
	FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Owner, error)
	FindAll(ctx context.Context, db *gorm.DB, scope entity.TenantScope) ([]entity.Owner, error)
	UpdateContact(ctx context.Context, db *gorm.DB, owner *entity.Owner) error
	// NextPatientSequence atomically bumps and returns the owner's patient
	// counter. Returns 0 when the owner is not visible in scope.
	NextPatientSequence(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ownerID uint) (int, error)
	// RaisePatientSequence moves the counter up to floor; it never lowers it.
	RaisePatientSequence(ctx context.Context, db *gorm.DB, ownerID uint, floor int) error
}
