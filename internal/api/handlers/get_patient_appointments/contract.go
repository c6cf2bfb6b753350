package get_patient_appointments

import (
	"context"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

type AppointmentService interface {
	ListForPatient(ctx context.Context, patientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
