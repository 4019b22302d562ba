package handler

import (
	"net/http"

	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/usecase"
	"go-vet-clinic/pkg/response"
)

type OwnerHandler struct {
	ownerUsecase usecase.OwnerUsecase
}

func NewOwnerHandler(ownerUsecase usecase.OwnerUsecase) *OwnerHandler {
	return &OwnerHandler{
		ownerUsecase: ownerUsecase,
	}
}

func (h *OwnerHandler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOwnerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	owner, err := h.ownerUsecase.CreateOwner(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Owner created successfully", owner)
}

func (h *OwnerHandler) UpdateOwnerContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateOwnerContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	owner, err := h.ownerUsecase.UpdateOwnerContact(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Owner updated successfully", owner)
}

func (h *OwnerHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	owner, err := h.ownerUsecase.GetOwner(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Owner retrieved successfully", owner)
}

func (h *OwnerHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.ownerUsecase.ListOwners(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Owners retrieved successfully", owners)
}
