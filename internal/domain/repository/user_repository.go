package repository

import (
	"context"

	"go-vet-clinic/internal/domain/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.User, error)
	FindAll(ctx context.Context, db *gorm.DB, scope entity.TenantScope) ([]entity.User, error)
}
