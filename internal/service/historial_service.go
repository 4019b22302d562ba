package service

import (
	"context"
	"fmt"
	"time"

	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/domain/repository"
	"go-vet-clinic/internal/infrastructure/database"
	"go-vet-clinic/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HistorialService is the write side of the patient ledger. Entries are only
// ever inserted, inside the transaction that created the encounter.
type HistorialService interface {
	Append(ctx context.Context, tx *gorm.DB, patient *entity.Patient, record entity.ClinicalRecord) (*entity.HistorialEntry, error)
}

type historialService struct {
	log           *logrus.Logger
	historialRepo repository.HistorialRepository
	metrics       *Metrics
}

func NewHistorialService(log *logrus.Logger, historialRepo repository.HistorialRepository, metrics *Metrics) HistorialService {
	return &historialService{
		log:           log,
		historialRepo: historialRepo,
		metrics:       metrics,
	}
}

func (s *historialService) Append(ctx context.Context, tx *gorm.DB, patient *entity.Patient, record entity.ClinicalRecord) (*entity.HistorialEntry, error) {
	if patient == nil || record == nil {
		return nil, apperror.Validation("historial entry needs a patient and a record", nil)
	}
	if !record.RecordType().Valid() || record.RecordID() == 0 {
		return nil, apperror.ValidationField("record_type", "unknown record")
	}

	entry := &entity.HistorialEntry{
		PatientID:   patient.ID,
		HistorialID: patient.HistorialID,
		ClinicID:    patient.ClinicID,
		RecordType:  record.RecordType(),
		RecordID:    record.RecordID(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.historialRepo.Create(ctx, tx, entry); err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, apperror.Conflictf("%s %d already recorded in historial", entry.RecordType, entry.RecordID)
		}
		s.log.Warnf("Failed to append historial entry: %+v", err)
		return nil, fmt.Errorf("append historial entry: %w", err)
	}

	s.metrics.ObserveHistorialAppend(entry.RecordType)
	s.log.WithFields(logrus.Fields{
		"historial_id": entry.HistorialID,
		"record_type":  entry.RecordType,
		"record_id":    entry.RecordID,
	}).Debug("Historial entry appended")
	return entry, nil
}
