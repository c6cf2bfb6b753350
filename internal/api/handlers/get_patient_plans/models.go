package get_patient_plans

import (
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

// PlanResponse HTTP модель плана пациента
type PlanResponse struct {
	ID                int64  `json:"id"`
	PatientID         int64  `json:"patientId"`
	PsychologistID    int64  `json:"psychologistId"`
	PlanTitle         string `json:"planTitle"`
	TotalSessions     int    `json:"totalSessions"`
	SessionsUsed      int    `json:"sessionsUsed"`
	SessionsRemaining int    `json:"sessionsRemaining"`
	IsActive          bool   `json:"isActive"`
	PurchasedAt       string `json:"purchasedAt"`
}

// FromPlans конвертирует доменные модели планов в HTTP модели
func FromPlans(plans []*domain.PatientPlan) []*PlanResponse {
	result := make([]*PlanResponse, 0, len(plans))
	for _, p := range plans {
		result = append(result, &PlanResponse{
			ID:                p.ID,
			PatientID:         p.PatientID,
			PsychologistID:    p.PsychologistID,
			PlanTitle:         p.PlanTitle,
			TotalSessions:     p.TotalSessions,
			SessionsUsed:      p.SessionsUsed,
			SessionsRemaining: p.SessionsRemaining(),
			IsActive:          p.IsActive,
			PurchasedAt:       p.PurchasedAt.Format(time.RFC3339),
		})
	}
	return result
}
