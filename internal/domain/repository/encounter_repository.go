package repository

import (
	"context"
	"time"

	"go-vet-clinic/internal/domain/entity"

	"gorm.io/gorm"
)

type ConsultationRepository interface {
	Create(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) error
	FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Consultation, error)
	FindByIDs(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) ([]entity.Consultation, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, patientID uint) ([]entity.Consultation, error)
	// Complete closes an open consultation. Returns affected rows: 0 = already completed.
	Complete(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) (int64, error)
}

type HospitalizationRepository interface {
	Create(ctx context.Context, db *gorm.DB, hospitalization *entity.Hospitalization) error
	FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.Hospitalization, error)
	FindByIDs(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) ([]entity.Hospitalization, error)
	FindActive(ctx context.Context, db *gorm.DB, scope entity.TenantScope) ([]entity.Hospitalization, error)
	// Discharge closes an active hospitalization. Returns affected rows: 0 = not active.
	Discharge(ctx context.Context, db *gorm.DB, id uint, endTime time.Time, notes string) (int64, error)
}

type LabStudyRepository interface {
	Create(ctx context.Context, db *gorm.DB, study *entity.LabStudy) error
	FindByID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, id uint) (*entity.LabStudy, error)
	FindByIDs(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) ([]entity.LabStudy, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, scope entity.TenantScope, patientID uint) ([]entity.LabStudy, error)
	// Complete stores results on a pending study. Returns affected rows: 0 = already completed.
	Complete(ctx context.Context, db *gorm.DB, id uint, results string, completedAt time.Time) (int64, error)
}
