package usecase

import (
	"context"
	"fmt"

	"go-vet-clinic/internal/converter"
	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/domain/repository"
	"go-vet-clinic/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type HistorialUsecase interface {
	GetHistorial(ctx context.Context, patientCode string) (*dto.HistorialResponse, error)
}

// detailResolver loads the encounters of one record kind by id and returns
// their response DTOs keyed by id.
type detailResolver func(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) (map[uint]interface{}, error)

type historialUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	guard         service.AccessGuard
	patientRepo   repository.PatientRepository
	historialRepo repository.HistorialRepository
	resolvers     map[entity.RecordType]detailResolver
}

func NewHistorialUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	guard service.AccessGuard,
	patientRepo repository.PatientRepository,
	historialRepo repository.HistorialRepository,
	consultationRepo repository.ConsultationRepository,
	hospitalizationRepo repository.HospitalizationRepository,
	labStudyRepo repository.LabStudyRepository,
) HistorialUsecase {
	return &historialUsecase{
		db:            db,
		log:           log,
		guard:         guard,
		patientRepo:   patientRepo,
		historialRepo: historialRepo,
		resolvers: map[entity.RecordType]detailResolver{
			entity.RecordTypeConsultation: func(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) (map[uint]interface{}, error) {
				rows, err := consultationRepo.FindByIDs(ctx, db, scope, ids)
				if err != nil {
					return nil, err
				}
				details := make(map[uint]interface{}, len(rows))
				for i := range rows {
					details[rows[i].ID] = converter.ConsultationToResponse(&rows[i])
				}
				return details, nil
			},
			entity.RecordTypeHospitalization: func(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) (map[uint]interface{}, error) {
				rows, err := hospitalizationRepo.FindByIDs(ctx, db, scope, ids)
				if err != nil {
					return nil, err
				}
				details := make(map[uint]interface{}, len(rows))
				for i := range rows {
					details[rows[i].ID] = converter.HospitalizationToResponse(&rows[i])
				}
				return details, nil
			},
			entity.RecordTypeLabStudy: func(ctx context.Context, db *gorm.DB, scope entity.TenantScope, ids []uint) (map[uint]interface{}, error) {
				rows, err := labStudyRepo.FindByIDs(ctx, db, scope, ids)
				if err != nil {
					return nil, err
				}
				details := make(map[uint]interface{}, len(rows))
				for i := range rows {
					details[rows[i].ID] = converter.LabStudyToResponse(&rows[i])
				}
				return details, nil
			},
		},
	}
}

// GetHistorial rebuilds the chronological record of a patient, newest first.
// Entries are grouped by record type, each group resolved with one query.
func (u *historialUsecase) GetHistorial(ctx context.Context, patientCode string) (*dto.HistorialResponse, error) {
	_, scope, err := u.guard.Authorize(ctx, entity.CapViewHistorial)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByCode(ctx, u.db, scope, patientCode)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientCode, err)
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	entries, err := u.historialRepo.FindByHistorialID(ctx, u.db, scope, patient.HistorialID)
	if err != nil {
		u.log.Warnf("Failed to find historial %s: %+v", patient.HistorialID, err)
		return nil, fmt.Errorf("find historial: %w", err)
	}

	idsByType := make(map[entity.RecordType][]uint)
	for _, entry := range entries {
		idsByType[entry.RecordType] = append(idsByType[entry.RecordType], entry.RecordID)
	}

	details := make(map[entity.RecordType]map[uint]interface{}, len(idsByType))
	for recordType, ids := range idsByType {
		resolve, ok := u.resolvers[recordType]
		if !ok {
			return nil, fmt.Errorf("no resolver for record type %q", recordType)
		}
		resolved, err := resolve(ctx, u.db, scope, ids)
		if err != nil {
			u.log.Warnf("Failed to resolve %s records for historial %s: %+v", recordType, patient.HistorialID, err)
			return nil, fmt.Errorf("resolve %s records: %w", recordType, err)
		}
		details[recordType] = resolved
	}

	responses := make([]dto.HistorialEntryResponse, 0, len(entries))
	for _, entry := range entries {
		detail, ok := details[entry.RecordType][entry.RecordID]
		if !ok {
			u.log.Warnf("Historial %s references missing %s %d", patient.HistorialID, entry.RecordType, entry.RecordID)
			continue
		}
		responses = append(responses, dto.HistorialEntryResponse{
			ID:         entry.ID,
			RecordType: entry.RecordType,
			RecordID:   entry.RecordID,
			CreatedAt:  entry.CreatedAt,
			Detail:     detail,
		})
	}

	return &dto.HistorialResponse{
		HistorialID: patient.HistorialID,
		Patient:     *converter.PatientToResponse(patient),
		Entries:     responses,
		Total:       len(responses),
	}, nil
}
