package reschedule_booking

import (
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// Request модель запроса на перенос приёма
type Request struct {
	AppointmentID int64
	Date          time.Time
	StartTime     types.TimeString
}

// Response модель ответа с обновлённым приёмом
type Response struct {
	Appointment *domain.Appointment
}
