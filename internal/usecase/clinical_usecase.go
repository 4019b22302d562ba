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
	ErrConsultationNotFound     = apperror.NotFound("consultation not found")
	ErrHospitalizationNotFound  = apperror.NotFound("hospitalization not found")
	ErrVeterinarianNotFound     = apperror.NotFound("veterinarian not found")
	ErrNotAVeterinarian         = apperror.ValidationField("vet_id", "user is not an active VETERINARIAN")
	ErrVeterinarianRequired     = apperror.ValidationField("vet_id", "vet_id is required")
	ErrInvalidTemperature       = apperror.ValidationField("temperature_c", "temperature_c must be greater than 0")
	ErrPatientNotActive         = apperror.Conflict("patient is not ACTIVE")
	ErrPatientNotInConsultation = apperror.Conflict("patient is not IN_CONSULTATION")
	ErrPatientNotHospitalized   = apperror.Conflict("patient is not HOSPITALIZED")
	ErrConsultationCompleted    = apperror.Conflict("consultation is already completed")
	ErrHospitalizationNotActive = apperror.Conflict("hospitalization is not active")
	ErrPatientStatusChanged     = apperror.Conflict("patient status changed concurrently, reload and retry")
)

// ClinicalUsecase drives the patient state machine. Every operation applies
// the status change, the encounter write, the historial append and the audit
// row in one transaction.
type ClinicalUsecase interface {
	BeginConsultation(ctx context.Context, req *dto.BeginConsultationRequest) (*dto.ConsultationResponse, error)
	CompleteConsultation(ctx context.Context, consultationID uint, req *dto.CompleteConsultationRequest) (*dto.ClinicalOutcomeResponse, error)
	GetConsultation(ctx context.Context, consultationID uint) (*dto.ConsultationResponse, error)
	OpenHospitalization(ctx context.Context, req *dto.OpenHospitalizationRequest) (*dto.HospitalizationResponse, error)
	DischargePatient(ctx context.Context, hospitalizationID uint, req *dto.DischargePatientRequest) (*dto.ClinicalOutcomeResponse, error)
	ListActiveHospitalizations(ctx context.Context) (*dto.HospitalizationListResponse, error)
}

type clinicalUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	validate            *validator.CustomValidator
	guard               service.AccessGuard
	auditService        service.AuditService
	historialService    service.HistorialService
	metrics             *service.Metrics
	patientRepo         repository.PatientRepository
	userRepo            repository.UserRepository
	consultationRepo    repository.ConsultationRepository
	hospitalizationRepo repository.HospitalizationRepository
	waitingRepo         repository.WaitingRoomRepository
	now                 func() time.Time
}

func NewClinicalUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	guard service.AccessGuard,
	auditService service.AuditService,
	historialService service.HistorialService,
	metrics *service.Metrics,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	consultationRepo repository.ConsultationRepository,
	hospitalizationRepo repository.HospitalizationRepository,
	waitingRepo repository.WaitingRoomRepository,
) ClinicalUsecase {
	return &clinicalUsecase{
		db:                  db,
		log:                 log,
		validate:            validate,
		guard:               guard,
		auditService:        auditService,
		historialService:    historialService,
		metrics:             metrics,
		patientRepo:         patientRepo,
		userRepo:            userRepo,
		consultationRepo:    consultationRepo,
		hospitalizationRepo: hospitalizationRepo,
		waitingRepo:         waitingRepo,
		now:                 time.Now,
	}
}

// BeginConsultation moves an ACTIVE patient into IN_CONSULTATION and opens the
// consultation. Today's waiting room entry of the patient is marked attended.
// The historial is not touched until the consultation completes.
func (u *clinicalUsecase) BeginConsultation(ctx context.Context, req *dto.BeginConsultationRequest) (*dto.ConsultationResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageConsultations)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.findPatientByCode(ctx, tx, scope, req.PatientCode)
	if err != nil {
		return nil, err
	}

	next, ok := patient.Status.NextStatus(entity.EventBeginConsultation)
	if !ok {
		return nil, ErrPatientNotActive
	}

	vet, err := u.resolveVeterinarian(ctx, tx, principal, patient.ClinicID, req.VetID)
	if err != nil {
		return nil, err
	}

	if err := u.transition(ctx, tx, patient, next); err != nil {
		return nil, err
	}

	consultation := &entity.Consultation{
		PatientID:   patient.ID,
		PatientCode: patient.PatientCode,
		ClinicID:    patient.ClinicID,
		VetID:       vet.ID,
		Motive:      req.Motive,
		Status:      entity.ConsultationStatusOpen,
		StartedAt:   u.now().UTC(),
	}
	if err := u.consultationRepo.Create(ctx, tx, consultation); err != nil {
		u.log.Warnf("Failed to create consultation: %+v", err)
		return nil, fmt.Errorf("create consultation: %w", err)
	}

	if err := u.leaveWaitingRoom(ctx, tx, patient, &consultation.ID); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, principal, patient.ClinicID, entity.AuditActionConsultationBegin, "consultation", formatID(consultation.ID), converter.ConsultationToResponse(consultation)); err != nil {
		return nil, fmt.Errorf("audit consultation begin: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit consultation begin: %w", err)
	}

	u.metrics.ObserveTransition(entity.PatientStatusActive, next)
	u.log.Infof("Consultation %d started: patient=%s, vet=%d", consultation.ID, patient.PatientCode, vet.ID)
	return converter.ConsultationToResponse(consultation), nil
}

// CompleteConsultation closes the consultation and appends it to the
// historial. When hospitalization is required the patient goes straight to
// HOSPITALIZED and the new hospitalization is appended as well.
func (u *clinicalUsecase) CompleteConsultation(ctx context.Context, consultationID uint, req *dto.CompleteConsultationRequest) (*dto.ClinicalOutcomeResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageConsultations)
	if err != nil {
		return nil, err
	}
	if req.RequiresHospitalization {
		if _, _, err := u.guard.Authorize(ctx, entity.CapManageHospitalization); err != nil {
			return nil, err
		}
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}
	if req.TemperatureC != nil && !req.TemperatureC.IsPositive() {
		return nil, ErrInvalidTemperature
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	consultation, err := u.consultationRepo.FindByID(ctx, tx, scope, consultationID)
	if err != nil {
		u.log.Warnf("Failed to find consultation %d: %+v", consultationID, err)
		return nil, fmt.Errorf("find consultation: %w", err)
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if !consultation.IsOpen() {
		return nil, ErrConsultationCompleted
	}

	patient, err := u.patientRepo.FindByID(ctx, tx, scope, consultation.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", consultation.PatientID, err)
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	event := entity.EventCompleteConsultation
	if req.RequiresHospitalization {
		event = entity.EventHospitalizeFromVisit
	}
	from := patient.Status
	next, ok := from.NextStatus(event)
	if !ok {
		return nil, ErrPatientNotInConsultation
	}

	if err := u.transition(ctx, tx, patient, next); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	var hospitalization *entity.Hospitalization
	if req.RequiresHospitalization {
		hospitalization = &entity.Hospitalization{
			PatientID:      patient.ID,
			PatientCode:    patient.PatientCode,
			ClinicID:       patient.ClinicID,
			VetID:          consultation.VetID,
			ConsultationID: &consultation.ID,
			Motive:         req.HospitalizationMotive,
			Procedures:     req.Procedures,
			Medication:     req.Medication,
			Status:         entity.HospitalizationStatusActive,
			StartTime:      now,
		}
		if err := u.hospitalizationRepo.Create(ctx, tx, hospitalization); err != nil {
			u.log.Warnf("Failed to create hospitalization: %+v", err)
			return nil, fmt.Errorf("create hospitalization: %w", err)
		}
		consultation.HospitalizationID = &hospitalization.ID
	}

	consultation.Diagnosis = req.Diagnosis
	consultation.Treatment = req.Treatment
	consultation.TemperatureC = nullDecimal(req.TemperatureC)
	consultation.Status = entity.ConsultationStatusCompleted
	consultation.CompletedAt = &now

	rows, err := u.consultationRepo.Complete(ctx, tx, consultation)
	if err != nil {
		u.log.Warnf("Failed to complete consultation %d: %+v", consultation.ID, err)
		return nil, fmt.Errorf("complete consultation: %w", err)
	}
	if rows == 0 {
		return nil, ErrConsultationCompleted
	}

	if _, err := u.historialService.Append(ctx, tx, patient, consultation); err != nil {
		return nil, err
	}
	if hospitalization != nil {
		if _, err := u.historialService.Append(ctx, tx, patient, hospitalization); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.LogUpdate(ctx, tx, principal, patient.ClinicID, entity.AuditActionConsultationComplete, "consultation", formatID(consultation.ID), nil, converter.ConsultationToResponse(consultation)); err != nil {
		return nil, fmt.Errorf("audit consultation complete: %w", err)
	}
	if hospitalization != nil {
		if err := u.auditService.LogCreate(ctx, tx, principal, patient.ClinicID, entity.AuditActionHospitalizationOpen, "hospitalization", formatID(hospitalization.ID), converter.HospitalizationToResponse(hospitalization)); err != nil {
			return nil, fmt.Errorf("audit hospitalization open: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit consultation complete: %w", err)
	}

	u.metrics.ObserveTransition(from, next)
	u.log.Infof("Consultation %d completed: patient=%s, status=%s", consultation.ID, patient.PatientCode, patient.Status)
	return &dto.ClinicalOutcomeResponse{
		Patient:         *converter.PatientToResponse(patient),
		Consultation:    converter.ConsultationToResponse(consultation),
		Hospitalization: converter.HospitalizationToResponse(hospitalization),
	}, nil
}

func (u *clinicalUsecase) GetConsultation(ctx context.Context, consultationID uint) (*dto.ConsultationResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapManageConsultations, entity.CapViewHistorial)
	if err != nil {
		return nil, err
	}

	consultation, err := u.consultationRepo.FindByID(ctx, u.db, scope, consultationID)
	if err != nil {
		u.log.Warnf("Failed to find consultation %d: %+v", consultationID, err)
		return nil, fmt.Errorf("find consultation: %w", err)
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}

	return converter.ConsultationToResponse(consultation), nil
}

// OpenHospitalization admits an ACTIVE patient directly, without a
// consultation. A queued patient leaves the waiting room.
func (u *clinicalUsecase) OpenHospitalization(ctx context.Context, req *dto.OpenHospitalizationRequest) (*dto.HospitalizationResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageHospitalization)
	if err != nil {
		return nil, err
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.findPatientByCode(ctx, tx, scope, req.PatientCode)
	if err != nil {
		return nil, err
	}

	next, ok := patient.Status.NextStatus(entity.EventOpenHospitalization)
	if !ok {
		return nil, ErrPatientNotActive
	}

	vet, err := u.resolveVeterinarian(ctx, tx, principal, patient.ClinicID, req.VetID)
	if err != nil {
		return nil, err
	}

	if err := u.transition(ctx, tx, patient, next); err != nil {
		return nil, err
	}

	hospitalization := &entity.Hospitalization{
		PatientID:   patient.ID,
		PatientCode: patient.PatientCode,
		ClinicID:    patient.ClinicID,
		VetID:       vet.ID,
		Motive:      req.Motive,
		Procedures:  req.Procedures,
		Medication:  req.Medication,
		Status:      entity.HospitalizationStatusActive,
		StartTime:   u.now().UTC(),
	}
	if err := u.hospitalizationRepo.Create(ctx, tx, hospitalization); err != nil {
		u.log.Warnf("Failed to create hospitalization: %+v", err)
		return nil, fmt.Errorf("create hospitalization: %w", err)
	}

	if err := u.leaveWaitingRoom(ctx, tx, patient, nil); err != nil {
		return nil, err
	}

	if _, err := u.historialService.Append(ctx, tx, patient, hospitalization); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, principal, patient.ClinicID, entity.AuditActionHospitalizationOpen, "hospitalization", formatID(hospitalization.ID), converter.HospitalizationToResponse(hospitalization)); err != nil {
		return nil, fmt.Errorf("audit hospitalization open: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit hospitalization open: %w", err)
	}

	u.metrics.ObserveTransition(entity.PatientStatusActive, next)
	u.log.Infof("Hospitalization %d opened: patient=%s, vet=%d", hospitalization.ID, patient.PatientCode, vet.ID)
	return converter.HospitalizationToResponse(hospitalization), nil
}

// DischargePatient closes an active hospitalization and returns the patient
// to ACTIVE. The historial already references the hospitalization, so no
// entry is added.
func (u *clinicalUsecase) DischargePatient(ctx context.Context, hospitalizationID uint, req *dto.DischargePatientRequest) (*dto.ClinicalOutcomeResponse, error) {
	principal, scope, err := u.guard.Authorize(ctx, entity.CapManageHospitalization)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &dto.DischargePatientRequest{}
	}
	if err := u.validate.ValidateRequest(req); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hospitalization, err := u.hospitalizationRepo.FindByID(ctx, tx, scope, hospitalizationID)
	if err != nil {
		u.log.Warnf("Failed to find hospitalization %d: %+v", hospitalizationID, err)
		return nil, fmt.Errorf("find hospitalization: %w", err)
	}
	if hospitalization == nil {
		return nil, ErrHospitalizationNotFound
	}
	if !hospitalization.IsActive() {
		return nil, ErrHospitalizationNotActive
	}

	patient, err := u.patientRepo.FindByID(ctx, tx, scope, hospitalization.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", hospitalization.PatientID, err)
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	next, ok := patient.Status.NextStatus(entity.EventDischarge)
	if !ok {
		return nil, ErrPatientNotHospitalized
	}

	before := *converter.HospitalizationToResponse(hospitalization)
	endTime := u.now().UTC()
	rows, err := u.hospitalizationRepo.Discharge(ctx, tx, hospitalization.ID, endTime, req.Notes)
	if err != nil {
		u.log.Warnf("Failed to discharge hospitalization %d: %+v", hospitalization.ID, err)
		return nil, fmt.Errorf("discharge hospitalization: %w", err)
	}
	if rows == 0 {
		return nil, ErrHospitalizationNotActive
	}
	hospitalization.Status = entity.HospitalizationStatusDischarged
	hospitalization.EndTime = &endTime
	hospitalization.DischargeNotes = req.Notes

	if err := u.transition(ctx, tx, patient, next); err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, principal, patient.ClinicID, entity.AuditActionDischarge, "hospitalization", formatID(hospitalization.ID), before, converter.HospitalizationToResponse(hospitalization)); err != nil {
		return nil, fmt.Errorf("audit discharge: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit transaction: %+v", err)
		return nil, fmt.Errorf("commit discharge: %w", err)
	}

	u.metrics.ObserveTransition(entity.PatientStatusHospitalized, next)
	u.log.Infof("Patient %s discharged from hospitalization %d", patient.PatientCode, hospitalization.ID)
	return &dto.ClinicalOutcomeResponse{
		Patient:         *converter.PatientToResponse(patient),
		Hospitalization: converter.HospitalizationToResponse(hospitalization),
	}, nil
}

func (u *clinicalUsecase) ListActiveHospitalizations(ctx context.Context) (*dto.HospitalizationListResponse, error) {
	_, scope, err := u.guard.AuthorizeAny(ctx, entity.CapManageHospitalization, entity.CapViewPatients)
	if err != nil {
		return nil, err
	}

	hospitalizations, err := u.hospitalizationRepo.FindActive(ctx, u.db, scope)
	if err != nil {
		u.log.Warnf("Failed to find active hospitalizations: %+v", err)
		return nil, fmt.Errorf("list hospitalizations: %w", err)
	}

	return &dto.HospitalizationListResponse{
		Hospitalizations: converter.HospitalizationsToResponses(hospitalizations),
		Total:            len(hospitalizations),
	}, nil
}

func (u *clinicalUsecase) findPatientByCode(ctx context.Context, tx *gorm.DB, scope entity.TenantScope, code string) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByCode(ctx, tx, scope, code)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", code, err)
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

// transition applies the status change only if the row still holds the status
// the caller read.
// leaveWaitingRoom closes the queue entries of a patient entering an
// encounter: today's entry is attended, older ones are cancelled.
func (u *clinicalUsecase) leaveWaitingRoom(ctx context.Context, tx *gorm.DB, patient *entity.Patient, consultationID *uint) error {
	today := u.now()

	if _, err := u.waitingRepo.ExpireBefore(ctx, tx, patient.ID, today); err != nil {
		u.log.Warnf("Failed to expire old waiting entries for patient %s: %+v", patient.PatientCode, err)
		return fmt.Errorf("expire waiting entries: %w", err)
	}

	entry, err := u.waitingRepo.FindWaitingByPatientID(ctx, tx, patient.ID, today)
	if err != nil {
		u.log.Warnf("Failed to find waiting entry for patient %s: %+v", patient.PatientCode, err)
		return fmt.Errorf("find waiting entry: %w", err)
	}
	if entry == nil {
		return nil
	}

	if _, err := u.waitingRepo.UpdateStatus(ctx, tx, entry.ID, entity.WaitingStatusAttended, consultationID); err != nil {
		u.log.Warnf("Failed to mark waiting entry %d attended: %+v", entry.ID, err)
		return fmt.Errorf("attend waiting entry: %w", err)
	}
	return nil
}

func (u *clinicalUsecase) transition(ctx context.Context, tx *gorm.DB, patient *entity.Patient, next entity.PatientStatus) error {
	rows, err := u.patientRepo.TransitionStatus(ctx, tx, patient.ID, patient.Status, next)
	if err != nil {
		u.log.Warnf("Failed to transition patient %s %s->%s: %+v", patient.PatientCode, patient.Status, next, err)
		return fmt.Errorf("transition patient status: %w", err)
	}
	if rows == 0 {
		return ErrPatientStatusChanged
	}
	patient.Status = next
	return nil
}

// resolveVeterinarian returns the attending vet, defaulting to the caller
// when the caller is a veterinarian. The vet must be active and belong to the
// patient's clinic.
func (u *clinicalUsecase) resolveVeterinarian(ctx context.Context, tx *gorm.DB, principal *entity.Principal, clinicID uint, vetID uint) (*entity.User, error) {
	if vetID == 0 {
		if principal.Role != entity.RoleVeterinarian {
			return nil, ErrVeterinarianRequired
		}
		vetID = principal.UserID
	}

	vet, err := u.userRepo.FindByID(ctx, tx, entity.ClinicScope(clinicID), vetID)
	if err != nil {
		u.log.Warnf("Failed to find veterinarian %d: %+v", vetID, err)
		return nil, fmt.Errorf("find veterinarian: %w", err)
	}
	if vet == nil {
		return nil, ErrVeterinarianNotFound
	}
	if !vet.IsVeterinarian() || !vet.Active() {
		return nil, ErrNotAVeterinarian
	}
	return vet, nil
}
