package repository

import (
	"context"

	"go-vet-clinic/internal/domain/entity"

	"gorm.io/gorm"
)

type ClinicRepository interface {
	Create(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error
	FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Clinic, error)
	FindAll(ctx context.Context, db *gorm.DB, scope entity.TenantScope) ([]entity.Clinic, error)
	UpdateContact(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error
}
