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
	ErrOwnerNotFound = apperror.NotFound("owner not found")
)

type OwnerUsecase interface {
	CreateOwner(ctx context.Context, req *dto.CreateOwnerRequest) (*dto.OwnerResponse, error)
	UpdateOwnerContact(ctx context.Context, id uint, req *dto.UpdateOwnerContactRequest) (*dto.OwnerResponse, error)
	GetOwner(ctx context.Context, id uint) (*dto.OwnerResponse, error)
	ListOwners(ctx context.Context) (*dto.OwnerListResponse, error)
}

type ownerUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	guard        service.AccessGuard
	auditService service.AuditService
	ownerRepo    repository.OwnerRepository
	clinicRepo   repository.ClinicRepository
}

func NewOwnerUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	guard service.AccessGuard,
	auditService service.AuditService,
	ownerRepo repository.OwnerRepository,
	clinicRepo repository.ClinicRepository,
) OwnerUsecase {
	return &ownerUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		guard:        guard,
		auditService: auditService,
		ownerRepo:    ownerRepo,
		clinicRepo:   clinicRepo,
	}
}

func (u *ownerUsecase) CreateOwner(ctx context.Context, req *dto.CreateOwnerRequest) (*dto.OwnerResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageOwners)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	clinicID, err := clinicForWrite(scope, req.ClinicID)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic, err := u.clinicRepo.FindByID(ctx, tx, scope, clinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic %d: %+v", clinicID, err)
		return nil, fmt.Errorf("find clinic: %w", err)
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	owner := &entity.Owner{
		ClinicID: clinicID,
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
	}
	if err := u.ownerRepo.Create(ctx, tx, owner); err != nil {
		u.log.Warnf("Failed to create owner: %+v", err)
		return nil, fmt.Errorf("create owner: %w", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, principal, clinicID, entity.AuditActionOwnerCreate, "owner", formatID(owner.ID), converter.OwnerToResponse(owner)); err != nil {
		return nil, fmt.Errorf("audit owner create: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit owner create: %w", err)
	}

	return converter.OwnerToResponse(owner), nil
}

func (u *ownerUsecase) UpdateOwnerContact(ctx context.Context, id uint, req *dto.UpdateOwnerContactRequest) (*dto.OwnerResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageOwners)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	owner, err := u.ownerRepo.FindByID(ctx, tx, scope, id)
	if err != nil {
		u.log.Warnf("Failed to find owner %d: %+v", id, err)
		return nil, fmt.Errorf("find owner: %w", err)
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}

	before := *converter.OwnerToResponse(owner)
	owner.FullName = req.FullName
	owner.Phone = req.Phone
	owner.Email = req.Email
	owner.Address = req.Address

	if err := u.ownerRepo.UpdateContact(ctx, tx, owner); err != nil {
		u.log.Warnf("Failed to update owner %d: %+v", id, err)
		return nil, fmt.Errorf("update owner: %w", err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, principal, owner.ClinicID, entity.AuditActionOwnerUpdate, "owner", formatID(owner.ID), before, converter.OwnerToResponse(owner)); err != nil {
		return nil, fmt.Errorf("audit owner update: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit owner update: %w", err)
	}

	return converter.OwnerToResponse(owner), nil
}

func (u *ownerUsecase) GetOwner(ctx context.Context, id uint) (*dto.OwnerResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapManageOwners, entity.CapViewPatients)
	if err != nil {
		return nil, err
	}

	owner, err := u.ownerRepo.FindByID(ctx, u.db, scope, id)
	if err != nil {
		u.log.Warnf("Failed to find owner %d: %+v", id, err)
		return nil, fmt.Errorf("find owner: %w", err)
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}

	return converter.OwnerToResponse(owner), nil
}

func (u *ownerUsecase) ListOwners(ctx context.Context) (*dto.OwnerListResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapManageOwners, entity.CapViewPatients)
	if err != nil {
		return nil, err
	}

	owners, err := u.ownerRepo.FindAll(ctx, u.db, scope)
	if err != nil {
		u.log.Warnf("Failed to find owners: %+v", err)
		return nil, fmt.Errorf("list owners: %w", err)
	}

	return &dto.OwnerListResponse{
		Owners: converter.OwnersToResponses(owners),
		Total:  len(owners),
	}, nil
}
