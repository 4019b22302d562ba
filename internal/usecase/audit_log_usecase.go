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

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// defaultAuditLogLimit caps audit listings.
const defaultAuditLogLimit = 200

var (
	ErrAuditLogNotFound = apperror.NotFound("audit log not found")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	guard        service.AccessGuard
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	guard service.AccessGuard,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		guard:        guard,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context) (*dto.AuditLogListResponse, error) {
	_, scope, err := u.guard.Authorize(ctx, entity.CapViewAudit)
	if err != nil {
		return nil, err
	}

	logs, err := u.auditLogRepo.FindAll(ctx, u.db, scope, defaultAuditLogLimit)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	_, scope, err := u.guard.Authorize(ctx, entity.CapViewAudit)
	if err != nil {
		return nil, err
	}

	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, scope, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, fmt.Errorf("find audit log: %w", err)
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
