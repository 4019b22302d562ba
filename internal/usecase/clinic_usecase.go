package usecase

import (
	"context"
	"fmt"

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
	ErrClinicNotFound      = apperror.NotFound("clinic not found")
	ErrClinicCreateScope   = apperror.Forbidden("only the super-tenant can create clinics")
	ErrClinicRequired      = apperror.ValidationField("clinic_id", "clinic is required")
	ErrClinicOutsideTenant = apperror.Forbidden("cannot write to another clinic")
)

type ClinicUsecase interface {
	CreateClinic(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error)
	UpdateClinicContact(ctx context.Context, id uint, req *dto.UpdateClinicContactRequest) (*dto.ClinicResponse, error)
	GetClinic(ctx context.Context, id uint) (*dto.ClinicResponse, error)
	ListClinics(ctx context.Context) (*dto.ClinicListResponse, error)
}

type clinicUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	guard        service.AccessGuard
	auditService service.AuditService
	clinicRepo   repository.ClinicRepository
}

func NewClinicUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	guard service.AccessGuard,
	auditService service.AuditService,
	clinicRepo repository.ClinicRepository,
) ClinicUsecase {
	return &clinicUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		guard:        guard,
		auditService: auditService,
		clinicRepo:   clinicRepo,
	}
}

// CreateClinic registers a new tenant. Only an unrestricted principal may
// create clinics.
func (u *clinicUsecase) CreateClinic(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageClinics)
	if err != nil {
		return nil, err
	}
	if !scope.Unrestricted {
		return nil, ErrClinicCreateScope
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic := &entity.Clinic{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := u.clinicRepo.Create(ctx, tx, clinic); err != nil {
		u.log.Warnf("Failed to create clinic: %+v", err)
		return nil, fmt.Errorf("create clinic: %w", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, principal, clinic.ID, entity.AuditActionClinicCreate, "clinic", formatID(clinic.ID), converter.ClinicToResponse(clinic)); err != nil {
		return nil, fmt.Errorf("audit clinic create: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit clinic create: %w", err)
	}

	u.log.Infof("Clinic created: id=%d, name=%s", clinic.ID, clinic.Name)
	return converter.ClinicToResponse(clinic), nil
}

// UpdateClinicContact replaces address, phone and email. The name is kept.
func (u *clinicUsecase) UpdateClinicContact(ctx context.Context, id uint, req *dto.UpdateClinicContactRequest) (*dto.ClinicResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageClinics)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic, err := u.clinicRepo.FindByID(ctx, tx, scope, id)
	if err != nil {
		u.log.Warnf("Failed to find clinic %d: %+v", id, err)
		return nil, fmt.Errorf("find clinic: %w", err)
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	before := *converter.ClinicToResponse(clinic)
	clinic.Address = req.Address
	clinic.Phone = req.Phone
	clinic.Email = req.Email

	if err := u.clinicRepo.UpdateContact(ctx, tx, clinic); err != nil {
		u.log.Warnf("Failed to update clinic %d: %+v", id, err)
		return nil, fmt.Errorf("update clinic: %w", err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, principal, clinic.ID, entity.AuditActionClinicUpdate, "clinic", formatID(clinic.ID), before, converter.ClinicToResponse(clinic)); err != nil {
		return nil, fmt.Errorf("audit clinic update: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit clinic update: %w", err)
	}

	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) GetClinic(ctx context.Context, id uint) (*dto.ClinicResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapManageClinics, entity.CapViewPatients)
	if err != nil {
		return nil, err
	}

	clinic, err := u.clinicRepo.FindByID(ctx, u.db, scope, id)
	if err != nil {
		u.log.Warnf("Failed to find clinic %d: %+v", id, err)
		return nil, fmt.Errorf("find clinic: %w", err)
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) ListClinics(ctx context.Context) (*dto.ClinicListResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapManageClinics, entity.CapViewPatients)
	if err != nil {
		return nil, err
	}

	clinics, err := u.clinicRepo.FindAll(ctx, u.db, scope)
	if err != nil {
		u.log.Warnf("Failed to find clinics: %+v", err)
		return nil, fmt.Errorf("list clinics: %w", err)
	}

	return &dto.ClinicListResponse{
		Clinics: converter.ClinicsToResponses(clinics),
		Total:   len(clinics),
	}, nil
}
