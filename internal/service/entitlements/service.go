package entitlements

import (
	"context"
	"errors"
	"fmt"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	planRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/plan"
)

// Service ведет учет сессий предоплаченных планов пациентов.
// Списание сессии происходит в момент бронирования, в той же транзакции,
// что и вставка приёма: оплаченный планом приём сразу создается подтвержденным,
// поэтому откладывать списание до завершения приёма нельзя - пациент смог бы
// удерживать больше подтвержденных приёмов, чем куплено сессий.
type Service struct {
	planRepo PlanRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса учета планов
func NewService(planRepo PlanRepository, logger Logger) *Service {
	return &Service{
		planRepo: planRepo,
		logger:   logger,
	}
}

// SelectPlan валидирует использование плана для бронирования у психолога.
// План должен: принадлежать пациенту, быть активным, относиться к этому
// специалисту и иметь неиспользованные сессии. Каждое нарушение - отдельная ошибка.
func (s *Service) SelectPlan(ctx context.Context, patientID, planID, psychologistID int64) (*domain.PatientPlan, error) {
	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, planRepo.ErrPlanNotFound) {
			s.logger.Warn("SelectPlan: plan id=%d not found", planID)
			return nil, ErrPlanInvalid
		}
		s.logger.Error("SelectPlan: failed to get plan id=%d: %v", planID, err)
		return nil, fmt.Errorf("%w: failed to get plan: %v", ErrInternal, err)
	}

	if !p.BelongsTo(patientID) || !p.IsActive {
		s.logger.Warn("SelectPlan: plan id=%d invalid for patient=%d (owner=%d, active=%t)",
			planID, patientID, p.PatientID, p.IsActive)
		return nil, ErrPlanInvalid
	}

	if p.PsychologistID != psychologistID {
		s.logger.Warn("SelectPlan: plan id=%d belongs to psychologist=%d, requested=%d",
			planID, p.PsychologistID, psychologistID)
		return nil, ErrPlanWrongProfessional
	}

	if !p.HasRemainingSessions() {
		s.logger.Warn("SelectPlan: plan id=%d exhausted (%d/%d sessions used)",
			planID, p.SessionsUsed, p.TotalSessions)
		return nil, ErrPlanExhausted
	}

	return p, nil
}

// ApplyUsage списывает одну сессию плана.
// Вызывается внутри транзакции создания приёма; при исчерпании плана
// (конкурентное списание) возвращает ErrPlanExhausted и транзакция откатывается.
func (s *Service) ApplyUsage(ctx context.Context, planID int64) error {
	if err := s.planRepo.DebitSession(ctx, planID); err != nil {
		if errors.Is(err, planRepo.ErrNoSessionsLeft) {
			s.logger.Warn("ApplyUsage: plan id=%d has no sessions left", planID)
			return ErrPlanExhausted
		}
		s.logger.Error("ApplyUsage: failed to debit plan id=%d: %v", planID, err)
		return fmt.Errorf("%w: failed to debit session: %v", ErrInternal, err)
	}

	s.logger.Info("ApplyUsage: debited one session from plan id=%d", planID)
	return nil
}

// RefundUsage возвращает сессию в план при отмене приёма, оплаченного планом.
// Отсутствие списаний не считается ошибкой вызывающего кода.
func (s *Service) RefundUsage(ctx context.Context, planID int64) error {
	if err := s.planRepo.RefundSession(ctx, planID); err != nil {
		if errors.Is(err, planRepo.ErrNothingToRefund) {
			s.logger.Warn("RefundUsage: plan id=%d has no used sessions to refund", planID)
			return nil
		}
		s.logger.Error("RefundUsage: failed to refund plan id=%d: %v", planID, err)
		return fmt.Errorf("%w: failed to refund session: %v", ErrInternal, err)
	}

	s.logger.Info("RefundUsage: returned one session to plan id=%d", planID)
	return nil
}

// ListActivePlans возвращает активные планы пациента
func (s *Service) ListActivePlans(ctx context.Context, patientID int64) ([]*domain.PatientPlan, error) {
	plans, err := s.planRepo.GetActiveByPatient(ctx, patientID)
	if err != nil {
		s.logger.Error("ListActivePlans: failed to list plans for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: failed to list plans: %v", ErrInternal, err)
	}
	return plans, nil
}
