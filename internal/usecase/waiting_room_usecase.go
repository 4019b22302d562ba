package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	ErrWaitingEntryNotFound = apperror.NotFound("waiting room entry not found")
	ErrPatientAlreadyQueued = apperror.Conflict("patient is already in the waiting room")
	ErrEntryNotWaiting      = apperror.Conflict("waiting room entry is no longer waiting")
	ErrQueueTicketConflict  = apperror.Conflict("could not issue a queue number, retry the request")
	errQueueTicketTaken     = errors.New("queue number taken")
)

type WaitingRoomUsecase interface {
	AdmitToWaitingRoom(ctx context.Context, req *dto.AdmitWaitingRoomRequest) (*dto.WaitingRoomEntryResponse, error)
	ListWaitingRoom(ctx context.Context) (*dto.WaitingRoomListResponse, error)
	CancelWaitingRoomEntry(ctx context.Context, id uint) (*dto.WaitingRoomEntryResponse, error)
}

type waitingRoomUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	guard        service.AccessGuard
	auditService service.AuditService
	ticketer     service.QueueTicketer
	patientRepo  repository.PatientRepository
	waitingRepo  repository.WaitingRoomRepository
	now          func() time.Time
}

func NewWaitingRoomUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	guard service.AccessGuard,
	auditService service.AuditService,
	ticketer service.QueueTicketer,
	patientRepo repository.PatientRepository,
	waitingRepo repository.WaitingRoomRepository,
) WaitingRoomUsecase {
	return &waitingRoomUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		guard:        guard,
		auditService: auditService,
		ticketer:     ticketer,
		patientRepo:  patientRepo,
		waitingRepo:  waitingRepo,
		now:          time.Now,
	}
}

// AdmitToWaitingRoom queues an ACTIVE patient for today. The patient keeps
// its ACTIVE status while queued.
func (u *waitingRoomUsecase) AdmitToWaitingRoom(ctx context.Context, req *dto.AdmitWaitingRoomRequest) (*dto.WaitingRoomEntryResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageWaitingRoom)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		entry, err := u.admit(ctx, principal, scope, req)
		if err == nil {
			u.log.Infof("Patient %s admitted to waiting room: clinic=%d, queue=%d", entry.PatientCode, entry.ClinicID, entry.QueueNumber)
			return converter.WaitingRoomEntryToResponse(entry), nil
		}
		if !errors.Is(err, errQueueTicketTaken) {
			return nil, err
		}
		u.log.Warnf("Queue number collision for patient %s (attempt %d/%d)", req.PatientCode, attempt, maxWriteAttempts)
	}

	return nil, ErrQueueTicketConflict
}

func (u *waitingRoomUsecase) admit(ctx context.Context, principal *entity.Principal, scope entity.TenantScope, req *dto.AdmitWaitingRoomRequest) (*entity.WaitingRoomEntry, error) {
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
	if !patient.IsActive() {
		return nil, ErrPatientNotActive
	}

	day := entity.QueueDay(u.now())

	expired, err := u.waitingRepo.ExpireBefore(ctx, tx, patient.ID, day)
	if err != nil {
		u.log.Warnf("Failed to expire old waiting entries for patient %s: %+v", patient.PatientCode, err)
		return nil, fmt.Errorf("expire waiting entries: %w", err)
	}
	if expired > 0 {
		u.log.Infof("Cancelled %d waiting entries of patient %s left from earlier days", expired, patient.PatientCode)
	}

	existing, err := u.waitingRepo.FindWaitingByPatientID(ctx, tx, patient.ID, day)
	if err != nil {
		u.log.Warnf("Failed to check waiting room for patient %s: %+v", patient.PatientCode, err)
		return nil, fmt.Errorf("find waiting entry: %w", err)
	}
	if existing != nil {
		return nil, ErrPatientAlreadyQueued
	}

	queueNumber, err := u.ticketer.NextTicket(ctx, tx, patient.ClinicID, day)
	if err != nil {
		return nil, fmt.Errorf("issue queue ticket: %w", err)
	}

	priority := entity.WaitingPriority(req.Priority)
	if priority == "" {
		priority = entity.WaitingPriorityNormal
	}

	entry := &entity.WaitingRoomEntry{
		ClinicID:    patient.ClinicID,
		QueueDate:   day,
		QueueNumber: queueNumber,
		PatientID:   patient.ID,
		PatientCode: patient.PatientCode,
		Reason:      req.Reason,
		Priority:    priority,
		Status:      entity.WaitingStatusWaiting,
	}
	if err := u.waitingRepo.Create(ctx, tx, entry); err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, errQueueTicketTaken
		}
		u.log.Warnf("Failed to create waiting room entry: %+v", err)
		return nil, fmt.Errorf("create waiting entry: %w", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, principal, entry.ClinicID, entity.AuditActionWaitingRoomAdmit, "waiting_room_entry", formatID(entry.ID), converter.WaitingRoomEntryToResponse(entry)); err != nil {
		return nil, fmt.Errorf("audit waiting room admit: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit waiting room admit: %w", err)
	}

	return entry, nil
}

// ListWaitingRoom returns today's waiting entries, urgent first.
func (u *waitingRoomUsecase) ListWaitingRoom(ctx context.Context) (*dto.WaitingRoomListResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapManageWaitingRoom, entity.CapViewPatients)
	if err != nil {
		return nil, err
	}

	entries, err := u.waitingRepo.FindWaiting(ctx, u.db, scope, u.now())
	if err != nil {
		u.log.Warnf("Failed to list waiting room: %+v", err)
		return nil, fmt.Errorf("list waiting room: %w", err)
	}

	return &dto.WaitingRoomListResponse{
		Entries: converter.WaitingRoomEntriesToResponses(entries),
		Total:   len(entries),
	}, nil
}

// CancelWaitingRoomEntry removes a patient from the queue. The queue number
// is not reused.
func (u *waitingRoomUsecase) CancelWaitingRoomEntry(ctx context.Context, id uint) (*dto.WaitingRoomEntryResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageWaitingRoom)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	entry, err := u.waitingRepo.FindByID(ctx, tx, scope, id)
	if err != nil {
		u.log.Warnf("Failed to find waiting room entry %d: %+v", id, err)
		return nil, fmt.Errorf("find waiting entry: %w", err)
	}
	if entry == nil {
		return nil, ErrWaitingEntryNotFound
	}

	rows, err := u.waitingRepo.UpdateStatus(ctx, tx, entry.ID, entity.WaitingStatusCancelled, nil)
	if err != nil {
		u.log.Warnf("Failed to cancel waiting room entry %d: %+v", id, err)
		return nil, fmt.Errorf("cancel waiting entry: %w", err)
	}
	if rows == 0 {
		return nil, ErrEntryNotWaiting
	}

	before := *converter.WaitingRoomEntryToResponse(entry)
	entry.Status = entity.WaitingStatusCancelled

	if err := u.auditService.LogUpdate(ctx, tx, principal, entry.ClinicID, entity.AuditActionWaitingRoomCancel, "waiting_room_entry", formatID(entry.ID), before, converter.WaitingRoomEntryToResponse(entry)); err != nil {
		return nil, fmt.Errorf("audit waiting room cancel: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit waiting room cancel: %w", err)
	}

	return converter.WaitingRoomEntryToResponse(entry), nil
}
