package create_booking

import (
	"context"
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/internal/integrations/profileservice"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByPsychologistWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	DeleteAbandoned(ctx context.Context, psychologistID int64, date time.Time, startTime types.TimeString) (int64, error)
}

// AvailabilityRepository интерфейс репозитория правил доступности
type AvailabilityRepository interface {
	GetActiveRulesForWeekday(ctx context.Context, psychologistID int64, weekday int) ([]*domain.AvailabilityRule, error)
}

// ProfileServiceClient интерфейс клиента сервиса профилей специалистов
type ProfileServiceClient interface {
	GetProfile(ctx context.Context, psychologistID int64) (*profileservice.Profile, error)
}

// EntitlementLedger интерфейс учета сессий предоплаченных планов
type EntitlementLedger interface {
	SelectPlan(ctx context.Context, patientID, planID, psychologistID int64) (*domain.PatientPlan, error)
	ApplyUsage(ctx context.Context, planID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
