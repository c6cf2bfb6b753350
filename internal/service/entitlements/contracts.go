package entitlements

import (
	"context"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

// PlanRepository интерфейс репозитория планов пациентов
type PlanRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PatientPlan, error)
	GetActiveByPatient(ctx context.Context, patientID int64) ([]*domain.PatientPlan, error)
	DebitSession(ctx context.Context, id int64) error
	RefundSession(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
