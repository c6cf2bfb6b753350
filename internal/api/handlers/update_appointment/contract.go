package update_appointment

import (
	"context"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	rescheduleBooking "github.com/psicoadmin/PSA-AppointmentService/internal/usecase/reschedule_booking"
)

type AppointmentService interface {
	UpdateStatus(ctx context.Context, id int64, requested domain.AppointmentStatus) (*domain.Appointment, error)
	UpdateDetails(ctx context.Context, id int64, notes, meetingLink *string) (*domain.Appointment, error)
}

type RescheduleBookingUseCase interface {
	Execute(ctx context.Context, req *rescheduleBooking.Request) (*rescheduleBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
