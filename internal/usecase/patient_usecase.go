package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-vet-clinic/internal/converter"
	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/domain/repository"
	"go-vet-clinic/internal/infrastructure/database"
	"go-vet-clinic/internal/service"
	"go-vet-clinic/pkg/apperror"
	"go-vet-clinic/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound       = apperror.NotFound("patient not found")
	ErrPatientCodeConflict   = apperror.Conflict("could not allocate a patient code, retry the request")
	ErrInvalidPatientWeight  = apperror.ValidationField("weight_kg", "weight_kg must be greater than 0")
	errPatientCodeDuplicated = errors.New("patient code duplicated")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, code string) (*dto.PatientResponse, error)
	ListPatients(ctx context.Context, req *dto.ListPatientsRequest) (*dto.PatientListResponse, error)
	UpdatePatient(ctx context.Context, code string, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	guard        service.AccessGuard
	auditService service.AuditService
	metrics      *service.Metrics
	patientRepo  repository.PatientRepository
	ownerRepo    repository.OwnerRepository
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	guard service.AccessGuard,
	auditService service.AuditService,
	metrics *service.Metrics,
	patientRepo repository.PatientRepository,
	ownerRepo repository.OwnerRepository,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		guard:        guard,
		auditService: auditService,
		metrics:      metrics,
		patientRepo:  patientRepo,
		ownerRepo:    ownerRepo,
	}
}

// CreatePatient registers a patient under an owner and allocates its code.
//
// The owner's counter is incremented in the same transaction as the insert,
// which holds the owner row lock until commit, so concurrent creations for one
// owner serialize and never see the same sequence. A unique violation on the
// code is retried a bounded number of times before surfacing as a conflict;
// a retry first lifts the counter past the sequences already stored.
func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManagePatients)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}
	if !validWeight(req.WeightKg) {
		return nil, ErrInvalidPatientWeight
	}

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		patient, err := u.createPatient(ctx, principal, scope, req, attempt > 1)
		if err == nil {
			u.metrics.ObservePatientCreated()
			u.log.Infof("Patient created: code=%s, owner=%d, clinic=%d", patient.PatientCode, patient.OwnerID, patient.ClinicID)
			return converter.PatientToResponse(patient), nil
		}
		if !errors.Is(err, errPatientCodeDuplicated) {
			return nil, err
		}
		u.log.Warnf("Patient code collision for owner %d (attempt %d/%d)", req.OwnerID, attempt, maxWriteAttempts)
	}

	return nil, ErrPatientCodeConflict
}

func (u *patientUsecase) createPatient(ctx context.Context, principal *entity.Principal, scope entity.TenantScope, req *dto.CreatePatientRequest, resync bool) (*entity.Patient, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	owner, err := u.ownerRepo.FindByID(ctx, tx, scope, req.OwnerID)
	if err != nil {
		u.log.Warnf("Failed to find owner %d: %+v", req.OwnerID, err)
		return nil, fmt.Errorf("find owner: %w", err)
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}

	if resync {
		if err := u.resyncSequence(ctx, tx, owner.ID); err != nil {
			return nil, err
		}
	}

	sequence, err := u.ownerRepo.NextPatientSequence(ctx, tx, scope, owner.ID)
	if err != nil {
		u.log.Warnf("Failed to allocate patient sequence for owner %d: %+v", owner.ID, err)
		return nil, fmt.Errorf("allocate patient sequence: %w", err)
	}
	if sequence == 0 {
		return nil, ErrOwnerNotFound
	}

	code := entity.FormatPatientCode(owner.ID, sequence)
	patient := &entity.Patient{
		PatientCode: code,
		OwnerID:     owner.ID,
		Sequence:    sequence,
		ClinicID:    owner.ClinicID,
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Sex:         req.Sex,
		BirthDate:   req.BirthDate,
		WeightKg:    nullDecimal(req.WeightKg),
		Status:      entity.PatientStatusActive,
		HistorialID: code,
	}

	if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, errPatientCodeDuplicated
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, fmt.Errorf("create patient: %w", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, principal, patient.ClinicID, entity.AuditActionPatientCreate, "patient", patient.PatientCode, converter.PatientToResponse(patient)); err != nil {
		return nil, fmt.Errorf("audit patient create: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, errPatientCodeDuplicated
		}
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit patient create: %w", err)
	}

	return patient, nil
}

// resyncSequence raises the owner's counter to the highest stored sequence so
// the next allocation skips codes that already exist.
func (u *patientUsecase) resyncSequence(ctx context.Context, tx *gorm.DB, ownerID uint) error {
	max, err := u.patientRepo.MaxSequence(ctx, tx, ownerID)
	if err != nil {
		u.log.Warnf("Failed to read patient sequences of owner %d: %+v", ownerID, err)
		return fmt.Errorf("read patient sequences: %w", err)
	}
	if err := u.ownerRepo.RaisePatientSequence(ctx, tx, ownerID, max); err != nil {
		u.log.Warnf("Failed to resync patient sequence of owner %d: %+v", ownerID, err)
		return fmt.Errorf("resync patient sequence: %w", err)
	}
	return nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, code string) (*dto.PatientResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapViewPatients, entity.CapManagePatients)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByCode(ctx, u.db, scope, code)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", code, err)
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) ListPatients(ctx context.Context, req *dto.ListPatientsRequest) (*dto.PatientListResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapViewPatients, entity.CapManagePatients)
	if err != nil {
		return nil, err
	}

	var filter *entity.PatientFilter
	if req != nil {
		if err := u.validate.ValidateRequest(req); err != nil {
			return nil, err
		}
		filter = &entity.PatientFilter{
			OwnerID: req.OwnerID,
			Status:  entity.PatientStatus(req.Status),
			Name:    req.Name,
		}
	}

	patients, err := u.patientRepo.FindAll(ctx, u.db, scope, filter)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, fmt.Errorf("list patients: %w", err)
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}

// UpdatePatient changes descriptive fields. Code, owner, clinic and status
// stay as they are.
func (u *patientUsecase) UpdatePatient(ctx context.Context, code string, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManagePatients)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}
	if !validWeight(req.WeightKg) {
		return nil, ErrInvalidPatientWeight
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByCode(ctx, tx, scope, code)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", code, err)
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	before := *converter.PatientToResponse(patient)
	patient.Name = req.Name
	patient.Species = req.Species
	patient.Breed = req.Breed
	patient.Sex = req.Sex
	patient.BirthDate = req.BirthDate
	patient.WeightKg = nullDecimal(req.WeightKg)

	if err := u.patientRepo.UpdateDetails(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", code, err)
		return nil, fmt.Errorf("update patient: %w", err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, principal, patient.ClinicID, entity.AuditActionPatientUpdate, "patient", patient.PatientCode, before, converter.PatientToResponse(patient)); err != nil {
		return nil, fmt.Errorf("audit patient update: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit patient update: %w", err)
	}

	return converter.PatientToResponse(patient), nil
}

func validWeight(weight *decimal.Decimal) bool {
	return weight == nil || weight.IsPositive()
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
