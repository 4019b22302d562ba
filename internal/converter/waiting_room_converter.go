package converter

import (
	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
)

func WaitingRoomEntryToResponse(entry *entity.WaitingRoomEntry) *dto.WaitingRoomEntryResponse {
	if entry == nil {
		return nil
	}

	return &dto.WaitingRoomEntryResponse{
		ID:             entry.ID,
		ClinicID:       entry.ClinicID,
		QueueDate:      entry.QueueDate,
		QueueNumber:    entry.QueueNumber,
		PatientID:      entry.PatientID,
		PatientCode:    entry.PatientCode,
		Reason:         entry.Reason,
		Priority:       entry.Priority,
		Status:         entry.Status,
		ConsultationID: entry.ConsultationID,
		CreatedAt:      entry.CreatedAt,
	}
}

func WaitingRoomEntriesToResponses(entries []entity.WaitingRoomEntry) []dto.WaitingRoomEntryResponse {
	responses := make([]dto.WaitingRoomEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *WaitingRoomEntryToResponse(&entries[i])
	}
	return responses
}
