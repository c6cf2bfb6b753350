package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	profileClient "github.com/psicoadmin/PSA-AppointmentService/internal/integrations/profileservice"
	appointmentRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/appointment"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// UseCase use case для переноса приёма на другой слот
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	profileClient    ProfileServiceClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		profileClient:    profileClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case переноса приёма.
// Новый слот проходит те же проверки, что и при создании, в сериализуемой
// транзакции. Сам переносимый приём из проверки конфликтов исключается:
// перенос в собственный слот или внутри него - не конфликт.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: appointment=%d, date=%s, start=%s",
		req.AppointmentID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Перенос на прошедшую дату запрещён
	if isDateInPast(req.Date, uc.timeProvider.Now()) {
		uc.logger.Warn("RescheduleBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrDateInPast
	}

	// 3. Приём должен существовать и быть активным
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if !appt.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: appointment id=%d in status=%s can not be rescheduled",
			appt.ID, appt.Status)
		return nil, ErrNotReschedulable
	}

	// 4. Длительность сессии берётся из профиля специалиста,
	// как и при первоначальном бронировании
	duration, err := uc.resolveSessionDuration(ctx, appt.PsychologistID)
	if err != nil {
		return nil, err
	}

	endTime, err := req.StartTime.AddMinutes(duration)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: start=%s + %d min crosses midnight", req.StartTime, duration)
		return nil, fmt.Errorf("%w: session does not fit into the day: %v", ErrInvalidInput, err)
	}

	txErr := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// 5. Новый интервал должен попадать в активное правило доступности
		if err := uc.checkAvailability(ctx, appt.PsychologistID, req, endTime); err != nil {
			return err
		}

		// 6. Проверка пересечения с активными приёмами дня, кроме переносимого
		if err := uc.checkConflicts(ctx, appt, req, endTime); err != nil {
			return err
		}

		// 7. Обновление расписания; статус приёма не меняется
		if err := uc.appointmentRepo.UpdateSchedule(ctx, appt.ID, req.Date, req.StartTime, endTime); err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				return ErrSlotConflict
			}
			uc.logger.Error("RescheduleBooking: failed to update schedule for id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}

		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	appt.AppointmentDate = req.Date
	appt.StartTime = req.StartTime
	appt.EndTime = endTime

	uc.logger.Info("RescheduleBooking: appointment id=%d moved to %s %s-%s",
		appt.ID, req.Date.Format(domain.DateFormat), req.StartTime, endTime)

	return &Response{Appointment: appt}, nil
}

// resolveSessionDuration определяет длительность сессии специалиста
func (uc *UseCase) resolveSessionDuration(ctx context.Context, psychologistID int64) (int, error) {
	profile, err := uc.profileClient.GetProfile(ctx, psychologistID)
	if err != nil {
		if errors.Is(err, profileClient.ErrProfileNotFound) {
			uc.logger.Info("RescheduleBooking: psychologist=%d has no profile, using default duration",
				psychologistID)
			return domain.DefaultSessionDurationMinutes, nil
		}
		uc.logger.Error("RescheduleBooking: failed to get profile for psychologist=%d: %v",
			psychologistID, err)
		return 0, fmt.Errorf("%w: failed to get professional profile: %v", ErrInternal, err)
	}

	if profile.SessionDurationMinutes <= 0 {
		return domain.DefaultSessionDurationMinutes, nil
	}

	return profile.SessionDurationMinutes, nil
}

// checkAvailability проверяет, что новый интервал целиком покрыт
// активным правилом доступности и дата не заблокирована
func (uc *UseCase) checkAvailability(ctx context.Context, psychologistID int64, req *Request, endTime types.TimeString) error {
	weekday := domain.WeekdayOf(req.Date)

	rules, err := uc.availabilityRepo.GetActiveRulesForWeekday(ctx, psychologistID, weekday)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get availability rules: %v", err)
		return fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	coveringBlocked := false
	for _, rule := range rules {
		if !rule.Covers(req.StartTime, endTime) {
			continue
		}
		if rule.IsBlockedOn(req.Date) {
			coveringBlocked = true
			continue
		}
		return nil
	}

	if coveringBlocked {
		uc.logger.Warn("RescheduleBooking: date %s is blocked for psychologist=%d",
			req.Date.Format(domain.DateFormat), psychologistID)
		return ErrDateBlocked
	}

	uc.logger.Warn("RescheduleBooking: no rule covers %s-%s for psychologist=%d on weekday=%d",
		req.StartTime, endTime, psychologistID, weekday)
	return ErrNotAvailable
}

// checkConflicts проверяет пересечение нового интервала с активными приёмами
// дня. Переносимый приём пропускается по id.
func (uc *UseCase) checkConflicts(ctx context.Context, current *domain.Appointment, req *Request, endTime types.TimeString) error {
	filter := domain.AppointmentsFilter{
		PsychologistID: current.PsychologistID,
		StartDate:      &req.Date,
		EndDate:        &req.Date,
	}

	appointments, err := uc.appointmentRepo.GetByPsychologistWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get appointments for conflict check: %v", err)
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	for _, appt := range appointments {
		if appt.ID == current.ID {
			continue
		}
		if !appt.IsActive() {
			continue
		}
		if appt.Overlaps(req.StartTime, endTime) {
			uc.logger.Warn("RescheduleBooking: slot %s-%s conflicts with appointment id=%d (%s-%s)",
				req.StartTime, endTime, appt.ID, appt.StartTime, appt.EndTime)
			return ErrSlotConflict
		}
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
