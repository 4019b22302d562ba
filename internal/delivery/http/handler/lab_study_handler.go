package handler

import (
	"net/http"

	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/usecase"
	"go-vet-clinic/pkg/response"

	"github.com/gorilla/mux"
)

type LabStudyHandler struct {
	labStudyUsecase usecase.LabStudyUsecase
}

func NewLabStudyHandler(labStudyUsecase usecase.LabStudyUsecase) *LabStudyHandler {
	return &LabStudyHandler{
		labStudyUsecase: labStudyUsecase,
	}
}

func (h *LabStudyHandler) RecordLabStudy(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordLabStudyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	study, err := h.labStudyUsecase.RecordLabStudy(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Lab study recorded", study)
}

func (h *LabStudyHandler) CompleteLabStudy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CompleteLabStudyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	study, err := h.labStudyUsecase.CompleteLabStudy(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Lab study completed", study)
}

func (h *LabStudyHandler) GetLabStudy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	study, err := h.labStudyUsecase.GetLabStudy(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Lab study retrieved successfully", study)
}

func (h *LabStudyHandler) ListLabStudies(w http.ResponseWriter, r *http.Request) {
	studies, err := h.labStudyUsecase.ListLabStudies(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Lab studies retrieved successfully", studies)
}
