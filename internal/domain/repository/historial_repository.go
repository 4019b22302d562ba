package repository

import (
	"context"

	"go-vet-clinic/internal/domain/entity"

	"gorm.io/gorm"
)

// HistorialRepository is insert-only: the ledger has no update or delete path.
type HistorialRepository interface {
	Create(ctx context.Context, db *gorm.DB, entry *entity.HistorialEntry) error
	FindByHistorialID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, historialID string) ([]entity.HistorialEntry, error)
	CountByPatientID(ctx context.Context, db *gorm.DB, patientID uint) (int64, error)
}
