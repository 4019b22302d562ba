package handler

import (
	"net/http"

	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/usecase"
	"go-vet-clinic/pkg/response"
)

type WaitingRoomHandler struct {
	waitingRoomUsecase usecase.WaitingRoomUsecase
}

func NewWaitingRoomHandler(waitingRoomUsecase usecase.WaitingRoomUsecase) *WaitingRoomHandler {
	return &WaitingRoomHandler{
		waitingRoomUsecase: waitingRoomUsecase,
	}
}

func (h *WaitingRoomHandler) Admit(w http.ResponseWriter, r *http.Request) {
	var req dto.AdmitWaitingRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.waitingRoomUsecase.AdmitToWaitingRoom(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Patient admitted to waiting room", entry)
}

func (h *WaitingRoomHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.waitingRoomUsecase.ListWaitingRoom(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Waiting room retrieved successfully", entries)
}

func (h *WaitingRoomHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	entry, err := h.waitingRoomUsecase.CancelWaitingRoomEntry(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Waiting room entry cancelled", entry)
}
