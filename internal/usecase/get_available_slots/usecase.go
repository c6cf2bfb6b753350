package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	profileClient "github.com/psicoadmin/PSA-AppointmentService/internal/integrations/profileservice"
)

// UseCase use case для получения доступных слотов психолога на дату
type UseCase struct {
	appointmentRepo        AppointmentRepository
	availabilityRepo       AvailabilityRepository
	profileClient          ProfileServiceClient
	defaultDurationMinutes int
	timeProvider           TimeProvider
	logger                 Logger
}

// NewUseCase создает новый экземпляр use case.
// defaultDurationMinutes применяется, когда у специалиста нет профиля -
// для выдачи слотов это не ошибка, в отличие от создания приёма.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	availabilityRepo AvailabilityRepository,
	profileClient ProfileServiceClient,
	defaultDurationMinutes int,
	logger Logger,
) *UseCase {
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = domain.DefaultSessionDurationMinutes
	}
	return &UseCase{
		appointmentRepo:        appointmentRepo,
		availabilityRepo:       availabilityRepo,
		profileClient:          profileClient,
		defaultDurationMinutes: defaultDurationMinutes,
		timeProvider:           &RealTimeProvider{},
		logger:                 logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Проверка занятости здесь неавторитативна - окончательную проверку
// делает создание приёма внутри сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: psychologist=%d, date=%s",
		req.PsychologistID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. На прошедшие даты слотов нет
	if isDateInPast(req.Date, now) {
		return &Response{
			PsychologistID:  req.PsychologistID,
			Date:            req.Date,
			DurationMinutes: uc.defaultDurationMinutes,
			Slots:           []domain.AvailableSlot{},
		}, nil
	}

	// 3. Определяем длительность сессии из профиля специалиста
	duration, err := uc.resolveSessionDuration(ctx, req.PsychologistID)
	if err != nil {
		return nil, err
	}

	// 4. Получаем активные правила доступности на день недели
	weekday := domain.WeekdayOf(req.Date)
	rules, err := uc.availabilityRepo.GetActiveRulesForWeekday(ctx, req.PsychologistID, weekday)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get rules for psychologist=%d weekday=%d: %v",
			req.PsychologistID, weekday, err)
		return nil, fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	if len(rules) == 0 {
		uc.logger.Info("GetAvailableSlots: no active rules for psychologist=%d on weekday=%d",
			req.PsychologistID, weekday)
		return &Response{
			PsychologistID:  req.PsychologistID,
			Date:            req.Date,
			DurationMinutes: duration,
			Slots:           []domain.AvailableSlot{},
		}, nil
	}

	// 5. Получаем активные приёмы дня для отметки занятости
	filter := domain.AppointmentsFilter{
		PsychologistID: req.PsychologistID,
		StartDate:      &req.Date,
		EndDate:        &req.Date,
	}

	appointments, err := uc.appointmentRepo.GetByPsychologistWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Генерируем слоты по каждому правилу независимо.
	// Правила упорядочены по началу окна, поэтому слоты выходят упорядоченными;
	// раздельные смены дают непересекающиеся наборы.
	slots := make([]domain.AvailableSlot, 0)
	for _, rule := range rules {
		if rule.IsBlockedOn(req.Date) {
			uc.logger.Info("GetAvailableSlots: rule id=%d blocked on %s",
				rule.ID, req.Date.Format(domain.DateFormat))
			continue
		}

		ruleSlots, err := generateRuleSlots(rule, duration, appointments)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to generate slots for rule id=%d: %v", rule.ID, err)
			return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
		}

		slots = append(slots, ruleSlots...)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for psychologist=%d, date=%s",
		len(slots), req.PsychologistID, req.Date.Format(domain.DateFormat))

	return &Response{
		PsychologistID:  req.PsychologistID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}

// resolveSessionDuration определяет длительность сессии специалиста.
// Отсутствие профиля при выдаче слотов не ошибка - применяется значение по умолчанию.
func (uc *UseCase) resolveSessionDuration(ctx context.Context, psychologistID int64) (int, error) {
	profile, err := uc.profileClient.GetProfile(ctx, psychologistID)
	if err != nil {
		if errors.Is(err, profileClient.ErrProfileNotFound) {
			uc.logger.Info("GetAvailableSlots: psychologist=%d has no profile, using default duration %d",
				psychologistID, uc.defaultDurationMinutes)
			return uc.defaultDurationMinutes, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get profile for psychologist=%d: %v", psychologistID, err)
		return 0, fmt.Errorf("%w: failed to get professional profile: %v", ErrInternal, err)
	}

	if profile.SessionDurationMinutes <= 0 {
		return uc.defaultDurationMinutes, nil
	}

	return profile.SessionDurationMinutes, nil
}
