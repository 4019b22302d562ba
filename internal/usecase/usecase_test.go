package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
	domainRepo "go-vet-clinic/internal/domain/repository"
	"go-vet-clinic/internal/repository"
	"go-vet-clinic/internal/service"
	"go-vet-clinic/pkg/validator"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	db      *gorm.DB
	metrics *service.Metrics
	// now is the clock of the waiting room and clinical usecases.
	now time.Time

	historialRepo domainRepo.HistorialRepository

	clinicA *entity.Clinic
	clinicB *entity.Clinic

	superuser *entity.User
	adminA    *entity.User
	vetA      *entity.User
	vetB      *entity.User

	ownerA *entity.Owner
	ownerB *entity.Owner

	clinics     ClinicUsecase
	users       UserUsecase
	owners      OwnerUsecase
	patients    PatientUsecase
	waitingRoom WaitingRoomUsecase
	clinical    ClinicalUsecase
	labStudies  LabStudyUsecase
	historial   HistorialUsecase
	auditLogs   AuditLogUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Clinic{},
		&entity.User{},
		&entity.Owner{},
		&entity.Patient{},
		&entity.Consultation{},
		&entity.Hospitalization{},
		&entity.LabStudy{},
		&entity.WaitingRoomEntry{},
		&entity.HistorialEntry{},
		&entity.AuditLog{},
	))

	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{db: db, metrics: service.NewMetrics(), now: fixedNow}
	env.seed(t)

	validate := validator.NewValidator()
	authorizer := service.NewAuthorizer(service.DefaultRoles())
	guard := service.NewAccessGuard(log, authorizer, service.NewTenantScopeResolver(), env.metrics)

	clinicRepo := repository.NewClinicRepository()
	userRepo := repository.NewUserRepository()
	ownerRepo := repository.NewOwnerRepository()
	patientRepo := repository.NewPatientRepository()
	consultationRepo := repository.NewConsultationRepository()
	hospitalizationRepo := repository.NewHospitalizationRepository()
	labStudyRepo := repository.NewLabStudyRepository()
	waitingRepo := repository.NewWaitingRoomRepository()
	historialRepo := repository.NewHistorialRepository()
	env.historialRepo = historialRepo
	auditLogRepo := repository.NewAuditLogRepository()

	auditService := service.NewAuditService(log, auditLogRepo)
	historialService := service.NewHistorialService(log, historialRepo, env.metrics)
	ticketer := service.NewDatabaseQueueTicketer(log, waitingRepo, env.metrics)

	env.clinics = NewClinicUsecase(db, log, validate, guard, auditService, clinicRepo)
	env.users = NewUserUsecase(db, log, validate, guard, authorizer, auditService, userRepo, clinicRepo)
	env.owners = NewOwnerUsecase(db, log, validate, guard, auditService, ownerRepo, clinicRepo)
	env.patients = NewPatientUsecase(db, log, validate, guard, auditService, env.metrics, patientRepo, ownerRepo)

	waitingRoom := NewWaitingRoomUsecase(db, log, validate, guard, auditService, ticketer, patientRepo, waitingRepo).(*waitingRoomUsecase)
	waitingRoom.now = func() time.Time { return env.now }
	env.waitingRoom = waitingRoom

	clinical := NewClinicalUsecase(db, log, validate, guard, auditService, historialService, env.metrics,
		patientRepo, userRepo, consultationRepo, hospitalizationRepo, waitingRepo).(*clinicalUsecase)
	clinical.now = func() time.Time { return env.now }
	env.clinical = clinical

	env.labStudies = NewLabStudyUsecase(db, log, validate, guard, auditService, historialService, patientRepo, labStudyRepo)
	env.historial = NewHistorialUsecase(db, log, guard, patientRepo, historialRepo, consultationRepo, hospitalizationRepo, labStudyRepo)
	env.auditLogs = NewAuditLogUsecase(db, log, guard, auditLogRepo)

	return env
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()

	e.clinicA = &entity.Clinic{Name: "Clinica Norte"}
	e.clinicB = &entity.Clinic{Name: "Clinica Sur"}
	require.NoError(t, e.db.Create(e.clinicA).Error)
	require.NoError(t, e.db.Create(e.clinicB).Error)

	e.superuser = &entity.User{Email: "root@vet.test", FullName: "Root", Role: entity.RoleSuperuser}
	e.adminA = &entity.User{Email: "admin.a@vet.test", FullName: "Admin A", Role: entity.RoleAdministrative, ClinicID: e.clinicA.ID}
	e.vetA = &entity.User{Email: "vet.a@vet.test", FullName: "Vet A", Role: entity.RoleVeterinarian, ClinicID: e.clinicA.ID, LicenseNumber: "MV-100"}
	e.vetB = &entity.User{Email: "vet.b@vet.test", FullName: "Vet B", Role: entity.RoleVeterinarian, ClinicID: e.clinicB.ID, LicenseNumber: "MV-200"}
	for _, u := range []*entity.User{e.superuser, e.adminA, e.vetA, e.vetB} {
		require.NoError(t, e.db.Create(u).Error)
	}

	e.ownerA = &entity.Owner{ID: 7, ClinicID: e.clinicA.ID, FullName: "Ana Torres"}
	e.ownerB = &entity.Owner{ID: 8, ClinicID: e.clinicB.ID, FullName: "Luis Medina"}
	require.NoError(t, e.db.Omit("Clinic", "Patients").Create(e.ownerA).Error)
	require.NoError(t, e.db.Omit("Clinic", "Patients").Create(e.ownerB).Error)
}

func (e *testEnv) as(user *entity.User) context.Context {
	return entity.ContextWithPrincipal(context.Background(), &entity.Principal{
		UserID:   user.ID,
		Role:     user.Role,
		ClinicID: user.ClinicID,
	})
}

func (e *testEnv) createPatient(t *testing.T, owner *entity.Owner, name string) *dto.PatientResponse {
	t.Helper()

	actor := e.vetA
	if owner.ClinicID == e.clinicB.ID {
		actor = e.vetB
	}
	patient, err := e.patients.CreatePatient(e.as(actor), &dto.CreatePatientRequest{
		OwnerID: owner.ID,
		Name:    name,
		Species: "canine",
	})
	require.NoError(t, err)
	return patient
}

func (e *testEnv) historialCount(t *testing.T, patientID uint) int64 {
	t.Helper()

	count, err := e.historialRepo.CountByPatientID(context.Background(), e.db, patientID)
	require.NoError(t, err)
	return count
}

func (e *testEnv) patientStatus(t *testing.T, patientID uint) entity.PatientStatus {
	t.Helper()

	var patient entity.Patient
	require.NoError(t, e.db.First(&patient, patientID).Error)
	return patient.Status
}
