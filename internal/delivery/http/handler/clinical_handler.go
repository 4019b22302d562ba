package handler

import (
	"net/http"

	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/usecase"
	"go-vet-clinic/pkg/response"
)

type ClinicalHandler struct {
	clinicalUsecase usecase.ClinicalUsecase
}

func NewClinicalHandler(clinicalUsecase usecase.ClinicalUsecase) *ClinicalHandler {
	return &ClinicalHandler{
		clinicalUsecase: clinicalUsecase,
	}
}

func (h *ClinicalHandler) BeginConsultation(w http.ResponseWriter, r *http.Request) {
	var req dto.BeginConsultationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	consultation, err := h.clinicalUsecase.BeginConsultation(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Consultation started", consultation)
}

func (h *ClinicalHandler) CompleteConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CompleteConsultationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := h.clinicalUsecase.CompleteConsultation(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Consultation completed", outcome)
}

func (h *ClinicalHandler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	consultation, err := h.clinicalUsecase.GetConsultation(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Consultation retrieved successfully", consultation)
}

func (h *ClinicalHandler) OpenHospitalization(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenHospitalizationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hospitalization, err := h.clinicalUsecase.OpenHospitalization(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Patient hospitalized", hospitalization)
}

func (h *ClinicalHandler) DischargePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.DischargePatientRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	outcome, err := h.clinicalUsecase.DischargePatient(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Patient discharged", outcome)
}

func (h *ClinicalHandler) ListActiveHospitalizations(w http.ResponseWriter, r *http.Request) {
	hospitalizations, err := h.clinicalUsecase.ListActiveHospitalizations(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Active hospitalizations retrieved successfully", hospitalizations)
}
