package create_booking

import (
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// Request модель запроса на создание приёма
type Request struct {
	PatientID       int64
	PsychologistID  int64
	Date            time.Time
	StartTime       types.TimeString
	AppointmentType domain.AppointmentType
	ReasonForVisit  string
	Notes           *string
	PatientPlanID   *int64
}

// Response модель ответа с созданным приёмом
type Response struct {
	Appointment *domain.Appointment
}
