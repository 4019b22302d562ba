package http

import (
	"net/http"

	"go-vet-clinic/internal/delivery/http/handler"
	"go-vet-clinic/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handlers groups the resource handlers mounted under /api/v1.
type Handlers struct {
	Clinic      *handler.ClinicHandler
	User        *handler.UserHandler
	Owner       *handler.OwnerHandler
	Patient     *handler.PatientHandler
	WaitingRoom *handler.WaitingRoomHandler
	Clinical    *handler.ClinicalHandler
	LabStudy    *handler.LabStudyHandler
	Historial   *handler.HistorialHandler
	AuditLog    *handler.AuditLogHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	metricsHandler http.Handler
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	log            *logrus.Logger
}

func NewRouter(
	handlers Handlers,
	metricsHandler http.Handler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	log *logrus.Logger,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		metricsHandler: metricsHandler,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		log:            log,
	}
}

func (r *Router) Setup() *mux.Router {
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Everything else needs a principal
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	h := r.handlers

	// Clinics and staff
	protected.HandleFunc("/clinics", h.Clinic.CreateClinic).Methods(http.MethodPost)
	protected.HandleFunc("/clinics", h.Clinic.ListClinics).Methods(http.MethodGet)
	protected.HandleFunc("/clinics/{id}", h.Clinic.GetClinic).Methods(http.MethodGet)
	protected.HandleFunc("/clinics/{id}", h.Clinic.UpdateClinicContact).Methods(http.MethodPut)

	protected.HandleFunc("/users", h.User.CreateUser).Methods(http.MethodPost)
	protected.HandleFunc("/users", h.User.ListUsers).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", h.User.GetUser).Methods(http.MethodGet)

	// Owners and patients
	protected.HandleFunc("/owners", h.Owner.CreateOwner).Methods(http.MethodPost)
	protected.HandleFunc("/owners", h.Owner.ListOwners).Methods(http.MethodGet)
	protected.HandleFunc("/owners/{id}", h.Owner.GetOwner).Methods(http.MethodGet)
	protected.HandleFunc("/owners/{id}", h.Owner.UpdateOwnerContact).Methods(http.MethodPut)

	protected.HandleFunc("/patients", h.Patient.CreatePatient).Methods(http.MethodPost)
	protected.HandleFunc("/patients", h.Patient.ListPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{code}", h.Patient.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{code}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{code}/historial", h.Historial.GetHistorial).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{code}/lab-studies", h.LabStudy.ListLabStudies).Methods(http.MethodGet)

	// Waiting room
	protected.HandleFunc("/waiting-room", h.WaitingRoom.Admit).Methods(http.MethodPost)
	protected.HandleFunc("/waiting-room", h.WaitingRoom.List).Methods(http.MethodGet)
	protected.HandleFunc("/waiting-room/{id}/cancel", h.WaitingRoom.Cancel).Methods(http.MethodPost)

	// Clinical flow
	protected.HandleFunc("/consultations", h.Clinical.BeginConsultation).Methods(http.MethodPost)
	protected.HandleFunc("/consultations/{id}", h.Clinical.GetConsultation).Methods(http.MethodGet)
	protected.HandleFunc("/consultations/{id}/complete", h.Clinical.CompleteConsultation).Methods(http.MethodPost)

	protected.HandleFunc("/hospitalizations", h.Clinical.OpenHospitalization).Methods(http.MethodPost)
	protected.HandleFunc("/hospitalizations", h.Clinical.ListActiveHospitalizations).Methods(http.MethodGet)
	protected.HandleFunc("/hospitalizations/{id}/discharge", h.Clinical.DischargePatient).Methods(http.MethodPost)

	protected.HandleFunc("/lab-studies", h.LabStudy.RecordLabStudy).Methods(http.MethodPost)
	protected.HandleFunc("/lab-studies/{id}", h.LabStudy.GetLabStudy).Methods(http.MethodGet)
	protected.HandleFunc("/lab-studies/{id}/complete", h.LabStudy.CompleteLabStudy).Methods(http.MethodPost)

	// Audit
	protected.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	protected.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(middleware.RequestLogger(r.log))
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
