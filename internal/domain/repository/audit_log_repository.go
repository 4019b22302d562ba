package repository

import (
	"context"

	"go-vet-clinic/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindAll(ctx context.Context, db *gorm.DB, scope entity.TenantScope, limit int) ([]entity.AuditLog, error)
	FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id int64) (*entity.AuditLog, error)
}
