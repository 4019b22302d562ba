package converter

import (
	"go-vet-clinic/internal/delivery/dto"
	"go-vet-clinic/internal/domain/entity"
)

// ConsultationToResponse converts a Consultation entity to ConsultationResponse DTO
func ConsultationToResponse(c *entity.Consultation) *dto.ConsultationResponse {
	if c == nil {
		return nil
	}

	return &dto.ConsultationResponse{
		ID:                c.ID,
		PatientID:         c.PatientID,
		PatientCode:       c.PatientCode,
		ClinicID:          c.ClinicID,
		VetID:             c.VetID,
		Motive:            c.Motive,
		Diagnosis:         c.Diagnosis,
		Treatment:         c.Treatment,
		TemperatureC:      c.TemperatureC,
		Status:            c.Status,
		HospitalizationID: c.HospitalizationID,
		StartedAt:         c.StartedAt,
		CompletedAt:       c.CompletedAt,
	}
}

// HospitalizationToResponse converts a Hospitalization entity to HospitalizationResponse DTO
func HospitalizationToResponse(h *entity.Hospitalization) *dto.HospitalizationResponse {
	if h == nil {
		return nil
	}

	return &dto.HospitalizationResponse{
		ID:             h.ID,
		PatientID:      h.PatientID,
		PatientCode:    h.PatientCode,
		ClinicID:       h.ClinicID,
		VetID:          h.VetID,
		ConsultationID: h.ConsultationID,
		Motive:         h.Motive,
		Procedures:     h.Procedures,
		Medication:     h.Medication,
		Status:         h.Status,
		StartTime:      h.StartTime,
		EndTime:        h.EndTime,
		DischargeNotes: h.DischargeNotes,
	}
}

func HospitalizationsToResponses(hospitalizations []entity.Hospitalization) []dto.HospitalizationResponse {
	responses := make([]dto.HospitalizationResponse, len(hospitalizations))
	for i := range hospitalizations {
		responses[i] = *HospitalizationToResponse(&hospitalizations[i])
	}
	return responses
}

// LabStudyToResponse converts a LabStudy entity to LabStudyResponse DTO
func LabStudyToResponse(l *entity.LabStudy) *dto.LabStudyResponse {
	if l == nil {
		return nil
	}

	return &dto.LabStudyResponse{
		ID:          l.ID,
		PatientID:   l.PatientID,
		PatientCode: l.PatientCode,
		ClinicID:    l.ClinicID,
		RequestedBy: l.RequestedBy,
		StudyType:   l.StudyType,
		Results:     l.Results,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
		CompletedAt: l.CompletedAt,
	}
}

func LabStudiesToResponses(studies []entity.LabStudy) []dto.LabStudyResponse {
	responses := make([]dto.LabStudyResponse, len(studies))
	for i := range studies {
		responses[i] = *LabStudyToResponse(&studies[i])
	}
	return responses
}
