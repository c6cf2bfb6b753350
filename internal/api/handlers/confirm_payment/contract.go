package confirm_payment

import (
	"context"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

type AppointmentService interface {
	ConfirmPayment(ctx context.Context, id int64) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
