package appointments

import (
	"context"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByPatientID(ctx context.Context, patientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByPsychologistWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	MarkPaid(ctx context.Context, id int64) error
	UpdateDetails(ctx context.Context, id int64, notes, meetingLink *string) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// EntitlementLedger интерфейс учета сессий предоплаченных планов
type EntitlementLedger interface {
	RefundUsage(ctx context.Context, planID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
