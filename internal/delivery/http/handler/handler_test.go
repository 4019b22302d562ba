package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/usecase"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePatientUsecase struct {
	created  *dto.CreatePatientRequest
	listReq  *dto.ListPatientsRequest
	getCode  string
	getErr   error
	createFn func(req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
}

func (f *fakePatientUsecase) CreatePatient(_ context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	f.created = req
	return f.createFn(req)
}

func (f *fakePatientUsecase) GetPatient(_ context.Context, code string) (*dto.PatientResponse, error) {
	f.getCode = code
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &dto.PatientResponse{PatientCode: code}, nil
}

func (f *fakePatientUsecase) ListPatients(_ context.Context, req *dto.ListPatientsRequest) (*dto.PatientListResponse, error) {
	f.listReq = req
	return &dto.PatientListResponse{}, nil
}

func (f *fakePatientUsecase) UpdatePatient(_ context.Context, code string, _ *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	return &dto.PatientResponse{PatientCode: code}, nil
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func patientRouter(uc usecase.PatientUsecase) *mux.Router {
	h := NewPatientHandler(uc)
	r := mux.NewRouter()
	r.HandleFunc("/patients", h.CreatePatient).Methods(http.MethodPost)
	r.HandleFunc("/patients", h.ListPatients).Methods(http.MethodGet)
	r.HandleFunc("/patients/{code}", h.GetPatient).Methods(http.MethodGet)
	return r
}

func TestPatientHandler_Create(t *testing.T) {
	uc := &fakePatientUsecase{
		createFn: func(req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
			return &dto.PatientResponse{PatientCode: "7-1", OwnerID: req.OwnerID, Status: entity.PatientStatusActive}, nil
		},
	}
	router := patientRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(`{"owner_id":7,"name":"Firulais","species":"canine","weight_kg":"4.20"}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)

	var patient dto.PatientResponse
	require.NoError(t, json.Unmarshal(body.Data, &patient))
	assert.Equal(t, "7-1", patient.PatientCode)

	require.NotNil(t, uc.created)
	require.NotNil(t, uc.created.WeightKg)
	assert.Equal(t, "4.2", uc.created.WeightKg.String())
}

func TestPatientHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", usecase.ErrInvalidPatientWeight, http.StatusBadRequest},
		{"not found", usecase.ErrOwnerNotFound, http.StatusNotFound},
		{"conflict", usecase.ErrPatientCodeConflict, http.StatusConflict},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakePatientUsecase{
				createFn: func(*dto.CreatePatientRequest) (*dto.PatientResponse, error) { return nil, tt.err },
			}

			rec := httptest.NewRecorder()
			patientRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(`{"owner_id":7}`)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			assert.NotContains(t, body.Message, "connection reset")
		})
	}
}

func TestPatientHandler_BadBody(t *testing.T) {
	uc := &fakePatientUsecase{}

	rec := httptest.NewRecorder()
	patientRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(`{"owner_id":`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.created)
}

func TestPatientHandler_ListQuery(t *testing.T) {
	uc := &fakePatientUsecase{}
	router := patientRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients?owner_id=7&status=HOSPITALIZED&name=fir", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.listReq)
	assert.Equal(t, dto.ListPatientsRequest{OwnerID: 7, Status: "HOSPITALIZED", Name: "fir"}, *uc.listReq)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients?owner_id=seven", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatientHandler_GetByCode(t *testing.T) {
	uc := &fakePatientUsecase{getErr: usecase.ErrPatientNotFound}

	rec := httptest.NewRecorder()
	patientRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/7-3", nil))

	assert.Equal(t, "7-3", uc.getCode)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "patient not found", decode(t, rec).Message)
}

type fakeClinicalUsecase struct {
	usecase.ClinicalUsecase
	dischargedID  uint
	dischargedReq *dto.DischargePatientRequest
}

func (f *fakeClinicalUsecase) DischargePatient(_ context.Context, id uint, req *dto.DischargePatientRequest) (*dto.ClinicalOutcomeResponse, error) {
	f.dischargedID = id
	f.dischargedReq = req
	return &dto.ClinicalOutcomeResponse{Patient: dto.PatientResponse{Status: entity.PatientStatusActive}}, nil
}

func TestClinicalHandler_Discharge(t *testing.T) {
	uc := &fakeClinicalUsecase{}
	h := NewClinicalHandler(uc)
	router := mux.NewRouter()
	router.HandleFunc("/hospitalizations/{id}/discharge", h.DischargePatient).Methods(http.MethodPost)

	t.Run("without body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hospitalizations/12/discharge", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint(12), uc.dischargedID)
	})

	t.Run("with notes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hospitalizations/13/discharge", strings.NewReader(`{"notes":"eating again"}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, uc.dischargedReq)
		assert.Equal(t, "eating again", uc.dischargedReq.Notes)
	})

	t.Run("invalid id", func(t *testing.T) {
		uc.dischargedID = 0
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hospitalizations/0/discharge", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, uc.dischargedID)
	})
}
