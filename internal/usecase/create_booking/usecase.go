package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	profileClient "github.com/psicoadmin/PSA-AppointmentService/internal/integrations/profileservice"
	appointmentRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/appointment"
	"github.com/psicoadmin/PSA-AppointmentService/internal/service/entitlements"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// UseCase use case для создания приёма
type UseCase struct {
	appointmentRepo  AppointmentRepository
	availabilityRepo AvailabilityRepository
	profileClient    ProfileServiceClient
	entitlements     EntitlementLedger
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	profileClient ProfileServiceClient,
	entitlements EntitlementLedger,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		profileClient:    profileClient,
		entitlements:     entitlements,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания приёма.
// Проверка доступности, проверка конфликтов, чистка брошенных броней,
// списание сессии плана и вставка выполняются в одной сериализуемой
// транзакции - две конкурентные брони на один слот не могут пройти обе.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: patient=%d, psychologist=%d, date=%s, start=%s",
		req.PatientID, req.PsychologistID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирование на прошедшую дату запрещено
	if isDateInPast(req.Date, uc.timeProvider.Now()) {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrDateInPast
	}

	// 3. Профиль специалиста обязателен: он определяет длительность сессии и тариф
	profile, err := uc.profileClient.GetProfile(ctx, req.PsychologistID)
	if err != nil {
		if errors.Is(err, profileClient.ErrProfileNotFound) {
			uc.logger.Warn("CreateBooking: psychologist=%d has no profile", req.PsychologistID)
			return nil, ErrNoProfessionalProfile
		}
		uc.logger.Error("CreateBooking: failed to get profile for psychologist=%d: %v",
			req.PsychologistID, err)
		return nil, fmt.Errorf("%w: failed to get professional profile: %v", ErrInternal, err)
	}

	duration := profile.SessionDurationMinutes
	if duration <= 0 {
		duration = domain.DefaultSessionDurationMinutes
	}

	// 4. Конец приёма выводится из длительности сессии специалиста
	endTime, err := req.StartTime.AddMinutes(duration)
	if err != nil {
		uc.logger.Warn("CreateBooking: start=%s + %d min crosses midnight", req.StartTime, duration)
		return nil, fmt.Errorf("%w: session does not fit into the day: %v", ErrInvalidInput, err)
	}

	var created *domain.Appointment

	txErr := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// 5. Интервал должен целиком попадать в активное правило доступности
		if err := uc.checkAvailability(ctx, req, endTime); err != nil {
			return err
		}

		// 6. Брошенная бронь (pending и неоплаченная) на этом же слоте
		// освобождается до проверки конфликтов
		deleted, err := uc.appointmentRepo.DeleteAbandoned(ctx, req.PsychologistID, req.Date, req.StartTime)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to clean up abandoned bookings: %v", err)
			return fmt.Errorf("%w: failed to clean up abandoned bookings: %v", ErrInternal, err)
		}
		if deleted > 0 {
			uc.logger.Info("CreateBooking: removed %d abandoned booking(s) at psychologist=%d, date=%s, start=%s",
				deleted, req.PsychologistID, req.Date.Format(domain.DateFormat), req.StartTime)
		}

		// 7. Проверка пересечения с активными приёмами дня (строки блокируются FOR UPDATE)
		if err := uc.checkConflicts(ctx, req, endTime); err != nil {
			return err
		}

		// 8. Предоплаченный план против внешней оплаты
		appt := &domain.Appointment{
			PatientID:       req.PatientID,
			PsychologistID:  req.PsychologistID,
			AppointmentDate: req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			AppointmentType: req.AppointmentType,
			ReasonForVisit:  req.ReasonForVisit,
			Notes:           req.Notes,
		}

		if req.PatientPlanID != nil {
			if err := uc.applyPlan(ctx, req, appt); err != nil {
				return err
			}
		} else {
			appt.Status = domain.StatusPending
			appt.IsPaid = false
			appt.ConsultationFee = profile.ConsultationFee
		}

		// 9. Вставка; нарушение частичного уникального индекса на слот -
		// страховка на случай гонки, не пойманной блокировками
		created, err = uc.appointmentRepo.Create(ctx, appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				return ErrSlotConflict
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	uc.logger.Info("CreateBooking: created appointment id=%d, status=%s, fee=%.2f",
		created.ID, created.Status, created.ConsultationFee)

	return &Response{Appointment: created}, nil
}

// checkAvailability проверяет, что интервал [start, end) целиком покрыт
// активным правилом доступности и дата не заблокирована.
// Различие ошибок: интервал покрыт, но дата заблокирована во всех
// покрывающих правилах - ErrDateBlocked; иначе - ErrNotAvailable.
func (uc *UseCase) checkAvailability(ctx context.Context, req *Request, endTime types.TimeString) error {
	weekday := domain.WeekdayOf(req.Date)

	rules, err := uc.availabilityRepo.GetActiveRulesForWeekday(ctx, req.PsychologistID, weekday)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get availability rules: %v", err)
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
		uc.logger.Warn("CreateBooking: date %s is blocked for psychologist=%d",
			req.Date.Format(domain.DateFormat), req.PsychologistID)
		return ErrDateBlocked
	}

	uc.logger.Warn("CreateBooking: no rule covers %s-%s for psychologist=%d on weekday=%d",
		req.StartTime, endTime, req.PsychologistID, weekday)
	return ErrNotAvailable
}

// checkConflicts проверяет пересечение запрошенного интервала с активными
// приёмами дня. Полуоткрытый тест: приём, заканчивающийся ровно в начале
// нового, конфликтом не считается.
func (uc *UseCase) checkConflicts(ctx context.Context, req *Request, endTime types.TimeString) error {
	filter := domain.AppointmentsFilter{
		PsychologistID: req.PsychologistID,
		StartDate:      &req.Date,
		EndDate:        &req.Date,
	}

	appointments, err := uc.appointmentRepo.GetByPsychologistWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get appointments for conflict check: %v", err)
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		if appt.Overlaps(req.StartTime, endTime) {
			uc.logger.Warn("CreateBooking: slot %s-%s conflicts with appointment id=%d (%s-%s)",
				req.StartTime, endTime, appt.ID, appt.StartTime, appt.EndTime)
			return ErrSlotConflict
		}
	}

	return nil
}

// applyPlan валидирует план пациента и списывает одну сессию.
// Приём по плану сразу подтвержден и считается оплаченным, тариф нулевой.
// Списание выполняется внутри транзакции: при откате бронь и списание
// отменяются вместе.
func (uc *UseCase) applyPlan(ctx context.Context, req *Request, appt *domain.Appointment) error {
	plan, err := uc.entitlements.SelectPlan(ctx, req.PatientID, *req.PatientPlanID, req.PsychologistID)
	if err != nil {
		return uc.mapPlanError(err, *req.PatientPlanID)
	}

	if err := uc.entitlements.ApplyUsage(ctx, plan.ID); err != nil {
		return uc.mapPlanError(err, plan.ID)
	}

	appt.Status = domain.StatusConfirmed
	appt.IsPaid = true
	appt.ConsultationFee = 0
	appt.PatientPlanID = &plan.ID

	uc.logger.Info("CreateBooking: plan id=%d applied, %d session(s) remained before debit",
		plan.ID, plan.SessionsRemaining())

	return nil
}

func (uc *UseCase) mapPlanError(err error, planID int64) error {
	switch {
	case errors.Is(err, entitlements.ErrPlanInvalid):
		uc.logger.Warn("CreateBooking: plan id=%d is invalid: %v", planID, err)
		return ErrPlanInvalid
	case errors.Is(err, entitlements.ErrPlanWrongProfessional):
		uc.logger.Warn("CreateBooking: plan id=%d belongs to another psychologist", planID)
		return ErrPlanWrongProfessional
	case errors.Is(err, entitlements.ErrPlanExhausted):
		uc.logger.Warn("CreateBooking: plan id=%d has no sessions left", planID)
		return ErrPlanExhausted
	default:
		uc.logger.Error("CreateBooking: plan id=%d check failed: %v", planID, err)
		return fmt.Errorf("%w: failed to apply patient plan: %v", ErrInternal, err)
	}
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
