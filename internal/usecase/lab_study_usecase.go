package usecase

import (
	"context"
	"fmt"
	"time"

	"go-vet-clinic/internal/converter"
	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/domain/repository"
	"go-vet-clinic/internal/service"
	"go-vet-clinic/pkg/apperror"
	"go-vet-clinic/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrLabStudyNotFound  = apperror.NotFound("lab study not found")
	ErrLabStudyCompleted = apperror.Conflict("lab study is already completed")
)

type LabStudyUsecase interface {
	RecordLabStudy(ctx context.Context, req *dto.RecordLabStudyRequest) (*dto.LabStudyResponse, error)
	CompleteLabStudy(ctx context.Context, id uint, req *dto.CompleteLabStudyRequest) (*dto.LabStudyResponse, error)
	GetLabStudy(ctx context.Context, id uint) (*dto.LabStudyResponse, error)
	ListLabStudies(ctx context.Context, patientCode string) (*dto.LabStudyListResponse, error)
}

type labStudyUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validate         *validator.CustomValidator
	guard            service.AccessGuard
	auditService     service.AuditService
	historialService service.HistorialService
	patientRepo      repository.PatientRepository
	labStudyRepo     repository.LabStudyRepository
	now              func() time.Time
}

func NewLabStudyUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	guard service.AccessGuard,
	auditService service.AuditService,
	historialService service.HistorialService,
	patientRepo repository.PatientRepository,
	labStudyRepo repository.LabStudyRepository,
) LabStudyUsecase {
	return &labStudyUsecase{
		db:               db,
		log:              log,
		validate:         validate,
		guard:            guard,
		auditService:     auditService,
		historialService: historialService,
		patientRepo:      patientRepo,
		labStudyRepo:     labStudyRepo,
		now:              time.Now,
	}
}

// RecordLabStudy files a study for a patient in any status and appends it to
// the historial.
func (u *labStudyUsecase) RecordLabStudy(ctx context.Context, req *dto.RecordLabStudyRequest) (*dto.LabStudyResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageLab)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByCode(ctx, tx, scope, req.PatientCode)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientCode, err)
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	study := &entity.LabStudy{
		PatientID:   patient.ID,
		PatientCode: patient.PatientCode,
		ClinicID:    patient.ClinicID,
		RequestedBy: principal.UserID,
		StudyType:   req.StudyType,
		Results:     req.Results,
		Status:      entity.LabStudyStatusPending,
	}
	if req.Results != "" {
		completedAt := u.now().UTC()
		study.Status = entity.LabStudyStatusCompleted
		study.CompletedAt = &completedAt
	}

	if err := u.labStudyRepo.Create(ctx, tx, study); err != nil {
		u.log.Warnf("Failed to create lab study: %+v", err)
		return nil, fmt.Errorf("create lab study: %w", err)
	}

	if _, err := u.historialService.Append(ctx, tx, patient, study); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, principal, patient.ClinicID, entity.AuditActionLabStudyRecord, "lab_study", formatID(study.ID), converter.LabStudyToResponse(study)); err != nil {
		return nil, fmt.Errorf("audit lab study record: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit lab study record: %w", err)
	}

	u.log.Infof("Lab study %d recorded: patient=%s, type=%s, status=%s", study.ID, patient.PatientCode, study.StudyType, study.Status)
	return converter.LabStudyToResponse(study), nil
}

// CompleteLabStudy stores the results of a pending study. The historial entry
// written at record time already points at it.
func (u *labStudyUsecase) CompleteLabStudy(ctx context.Context, id uint, req *dto.CompleteLabStudyRequest) (*dto.LabStudyResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageLab)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	study, err := u.labStudyRepo.FindByID(ctx, tx, scope, id)
	if err != nil {
		u.log.Warnf("Failed to find lab study %d: %+v", id, err)
		return nil, fmt.Errorf("find lab study: %w", err)
	}
	if study == nil {
		return nil, ErrLabStudyNotFound
	}
	if !study.IsPending() {
		return nil, ErrLabStudyCompleted
	}

	before := *converter.LabStudyToResponse(study)
	completedAt := u.now().UTC()
	rows, err := u.labStudyRepo.Complete(ctx, tx, study.ID, req.Results, completedAt)
	if err != nil {
		u.log.Warnf("Failed to complete lab study %d: %+v", id, err)
		return nil, fmt.Errorf("complete lab study: %w", err)
	}
	if rows == 0 {
		return nil, ErrLabStudyCompleted
	}
	study.Results = req.Results
	study.Status = entity.LabStudyStatusCompleted
	study.CompletedAt = &completedAt

	if err := u.auditService.LogUpdate(ctx, tx, principal, study.ClinicID, entity.AuditActionLabStudyComplete, "lab_study", formatID(study.ID), before, converter.LabStudyToResponse(study)); err != nil {
		return nil, fmt.Errorf("audit lab study complete: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit lab study complete: %w", err)
	}

	return converter.LabStudyToResponse(study), nil
}

func (u *labStudyUsecase) GetLabStudy(ctx context.Context, id uint) (*dto.LabStudyResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapManageLab, entity.CapViewHistorial)
	if err != nil {
		return nil, err
	}

	study, err := u.labStudyRepo.FindByID(ctx, u.db, scope, id)
	if err != nil {
		u.log.Warnf("Failed to find lab study %d: %+v", id, err)
		return nil, fmt.Errorf("find lab study: %w", err)
	}
	if study == nil {
		return nil, ErrLabStudyNotFound
	}

	return converter.LabStudyToResponse(study), nil
}

func (u *labStudyUsecase) ListLabStudies(ctx context.Context, patientCode string) (*dto.LabStudyListResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapManageLab, entity.CapViewHistorial)
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

	studies, err := u.labStudyRepo.FindByPatientID(ctx, u.db, scope, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to find lab studies for patient %s: %+v", patientCode, err)
		return nil, fmt.Errorf("list lab studies: %w", err)
	}

	return &dto.LabStudyListResponse{
		Studies: converter.LabStudiesToResponses(studies),
		Total:   len(studies),
	}, nil
}
