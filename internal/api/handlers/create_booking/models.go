package create_booking

import (
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	createBooking "github.com/psicoadmin/PSA-AppointmentService/internal/usecase/create_booking"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	PatientID       int64   `json:"patientId"`
	PsychologistID  int64   `json:"psychologistId"`
	AppointmentDate string  `json:"appointmentDate"` // "2026-09-15"
	StartTime       string  `json:"startTime"`       // "10:00"
	AppointmentType string  `json:"appointmentType"` // "in_person" | "virtual"
	ReasonForVisit  string  `json:"reasonForVisit"`
	Notes           *string `json:"notes,omitempty"`
	PatientPlanID   *int64  `json:"patientPlanId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.AppointmentDate)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		PatientID:       r.PatientID,
		PsychologistID:  r.PsychologistID,
		Date:            date,
		StartTime:       startTime,
		AppointmentType: domain.AppointmentType(r.AppointmentType),
		ReasonForVisit:  r.ReasonForVisit,
		Notes:           r.Notes,
		PatientPlanID:   r.PatientPlanID,
	}, nil
}
