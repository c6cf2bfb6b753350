package get_patient_plans

import (
	"context"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

type EntitlementService interface {
	ListActivePlans(ctx context.Context, patientID int64) ([]*domain.PatientPlan, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
