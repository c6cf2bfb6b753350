package handlers

import (
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

// AppointmentResponse HTTP модель приёма, общая для всех endpoints
type AppointmentResponse struct {
	ID                 int64   `json:"id"`
	PatientID          int64   `json:"patientId"`
	PsychologistID     int64   `json:"psychologistId"`
	AppointmentDate    string  `json:"appointmentDate"`
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	AppointmentType    string  `json:"appointmentType"`
	Status             string  `json:"status"`
	ReasonForVisit     string  `json:"reasonForVisit"`
	Notes              *string `json:"notes,omitempty"`
	MeetingLink        *string `json:"meetingLink,omitempty"`
	ConsultationFee    float64 `json:"consultationFee"`
	IsPaid             bool    `json:"isPaid"`
	PatientPlanID      *int64  `json:"patientPlanId,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromAppointment конвертирует доменную модель приёма в HTTP модель
func FromAppointment(appt *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:                 appt.ID,
		PatientID:          appt.PatientID,
		PsychologistID:     appt.PsychologistID,
		AppointmentDate:    appt.AppointmentDate.Format(domain.DateFormat),
		StartTime:          appt.StartTime.String(),
		EndTime:            appt.EndTime.String(),
		AppointmentType:    string(appt.AppointmentType),
		Status:             string(appt.Status),
		ReasonForVisit:     appt.ReasonForVisit,
		Notes:              appt.Notes,
		MeetingLink:        appt.MeetingLink,
		ConsultationFee:    appt.ConsultationFee,
		IsPaid:             appt.IsPaid,
		PatientPlanID:      appt.PatientPlanID,
		CancellationReason: appt.CancellationReason,
		CreatedAt:          appt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          appt.UpdatedAt.Format(time.RFC3339),
	}

	if appt.CancelledAt != nil {
		cancelledAt := appt.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromAppointments конвертирует список приёмов в HTTP модели
func FromAppointments(appts []*domain.Appointment) []*AppointmentResponse {
	result := make([]*AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		result = append(result, FromAppointment(appt))
	}
	return result
}
