package usecase

import (
	"context"
	"fmt"

	"go-vet-clinic/internal/converter"
	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/domain/repository"
	"go-vet-clinic/internal/infrastructure/database"
	"go-vet-clinic/internal/service"
	"go-vet-clinic/pkg/apperror"
	"go-vet-clinic/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = apperror.NotFound("user not found")
	ErrEmailAlreadyExists  = apperror.Conflict("email already registered")
	ErrSuperuserWithClinic = apperror.ValidationField("clinic_id", "SUPERUSER cannot belong to a clinic")
	ErrSuperuserCreation   = apperror.Forbidden("only the super-tenant can create SUPERUSER accounts")
)

type UserUsecase interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id uint) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) (*dto.UserListResponse, error)
}

type userUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	guard        service.AccessGuard
	authorizer   service.Authorizer
	auditService service.AuditService
	userRepo     repository.UserRepository
	clinicRepo   repository.ClinicRepository
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	guard service.AccessGuard,
	authorizer service.Authorizer,
	auditService service.AuditService,
	userRepo repository.UserRepository,
	clinicRepo repository.ClinicRepository,
) UserUsecase {
	return &userUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		guard:        guard,
		authorizer:   authorizer,
		auditService: auditService,
		userRepo:     userRepo,
		clinicRepo:   clinicRepo,
	}
}

// CreateUser enforces the clinic/role invariant: clinic 0 exactly for
// SUPERUSER, a real clinic for everybody else.
func (u *userUsecase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapCreateUsers)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	role := entity.RoleName(req.Role)

	var clinicID uint
	if role == entity.RoleSuperuser {
		if !scope.Unrestricted {
			return nil, ErrSuperuserCreation
		}
		if req.ClinicID != entity.SuperTenantClinicID {
			return nil, ErrSuperuserWithClinic
		}
	} else {
		clinicID, err = clinicForWrite(scope, req.ClinicID)
		if err != nil {
			return nil, err
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if clinicID != entity.SuperTenantClinicID {
		clinic, err := u.clinicRepo.FindByID(ctx, tx, scope, clinicID)
		if err != nil {
			u.log.Warnf("Failed to find clinic %d: %+v", clinicID, err)
			return nil, fmt.Errorf("find clinic: %w", err)
		}
		if clinic == nil {
			return nil, ErrClinicNotFound
		}
	}

	active := true
	user := &entity.User{
		ClinicID:      clinicID,
		Role:          role,
		Email:         req.Email,
		FullName:      req.FullName,
		LicenseNumber: req.LicenseNumber,
		IsActive:      &active,
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, principal, clinicID, entity.AuditActionUserCreate, "user", formatID(user.ID), converter.UserToResponse(user)); err != nil {
		return nil, fmt.Errorf("audit user create: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit user create: %w", err)
	}

	u.log.Infof("User created: id=%d, role=%s, clinic=%d", user.ID, user.Role, user.ClinicID)
	return u.toResponse(user), nil
}

func (u *userUsecase) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapCreateUsers, entity.CapViewPatients)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, u.db, scope, id)
	if err != nil {
		u.log.Warnf("Failed to find user %d: %+v", id, err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return u.toResponse(user), nil
}

func (u *userUsecase) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapCreateUsers, entity.CapViewPatients)
	if err != nil {
		return nil, err
	}

	users, err := u.userRepo.FindAll(ctx, u.db, scope)
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *u.toResponse(&users[i])
	}

	return &dto.UserListResponse{
		Users: responses,
		Total: len(users),
	}, nil
}

func (u *userUsecase) toResponse(user *entity.User) *dto.UserResponse {
	response := converter.UserToResponse(user)
	response.Capabilities = u.authorizer.Capabilities(user.Role)
	return response
}
