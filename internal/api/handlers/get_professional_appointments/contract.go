package get_professional_appointments

import (
	"context"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

type AppointmentService interface {
	ListForProfessional(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
