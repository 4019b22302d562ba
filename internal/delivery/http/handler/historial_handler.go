package handler

import (
	"net/http"

	"go-vet-clinic/internal/usecase"
	"go-vet-clinic/pkg/response"

	"github.com/gorilla/mux"
)

type HistorialHandler struct {
	historialUsecase usecase.HistorialUsecase
}

func NewHistorialHandler(historialUsecase usecase.HistorialUsecase) *HistorialHandler {
	return &HistorialHandler{
		historialUsecase: historialUsecase,
	}
}

func (h *HistorialHandler) GetHistorial(w http.ResponseWriter, r *http.Request) {
	historial, err := h.historialUsecase.GetHistorial(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Historial retrieved successfully", historial)
}
