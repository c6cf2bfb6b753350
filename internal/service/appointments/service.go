package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	appointmentRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/appointment"
)

// Service управляет жизненным циклом приёма после бронирования:
// переходы статусов, подтверждение внешней оплаты, отмена с возвратом
// сессии плана, списки приёмов пациента и специалиста.
type Service struct {
	appointmentRepo AppointmentRepository
	entitlements    EntitlementLedger
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса приёмов
func NewService(
	appointmentRepo AppointmentRepository,
	entitlements EntitlementLedger,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		entitlements:    entitlements,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID возвращает приём по идентификатору
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	return appt, nil
}

// ListForPatient возвращает приёмы пациента, опционально отфильтрованные по статусу
func (s *Service) ListForPatient(ctx context.Context, patientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	appts, err := s.appointmentRepo.GetByPatientID(ctx, patientID, status)
	if err != nil {
		s.logger.Error("ListForPatient: failed to list appointments for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}
	return appts, nil
}

// ListForProfessional возвращает приёмы специалиста по фильтру
func (s *Service) ListForProfessional(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	appts, err := s.appointmentRepo.GetByPsychologistWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListForProfessional: failed to list appointments for psychologist=%d: %v",
			filter.PsychologistID, err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}
	return appts, nil
}

// UpdateStatus переводит приём в новый статус.
// Допустимость перехода проверяется по таблице переходов; чтение и запись
// выполняются в одной транзакции, чтобы конкурентный переход не проскочил
// мимо проверки.
func (s *Service) UpdateStatus(ctx context.Context, id int64, requested domain.AppointmentStatus) (*domain.Appointment, error) {
	var updated *domain.Appointment

	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		appt, err := s.getForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := domain.ValidateTransition(appt.Status, requested); err != nil {
			s.logger.Warn("UpdateStatus: appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		if err := s.appointmentRepo.UpdateStatus(ctx, id, requested); err != nil {
			s.logger.Error("UpdateStatus: failed to update appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		appt.Status = requested
		updated = appt
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	s.logger.Info("UpdateStatus: appointment id=%d moved to status=%s", id, requested)
	return updated, nil
}

// ConfirmPayment фиксирует внешнюю оплату: приём из pending становится
// confirmed и помечается оплаченным. Повторное подтверждение и подтверждение
// приёма не в ожидании оплаты отклоняются.
func (s *Service) ConfirmPayment(ctx context.Context, id int64) (*domain.Appointment, error) {
	var updated *domain.Appointment

	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		appt, err := s.getForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if appt.Status != domain.StatusPending || appt.IsPaid {
			s.logger.Warn("ConfirmPayment: appointment id=%d not awaiting payment (status=%s, paid=%t)",
				id, appt.Status, appt.IsPaid)
			return ErrNotAwaitingPayment
		}

		if err := s.appointmentRepo.MarkPaid(ctx, id); err != nil {
			s.logger.Error("ConfirmPayment: failed to mark appointment id=%d paid: %v", id, err)
			return fmt.Errorf("%w: failed to confirm payment: %v", ErrInternal, err)
		}

		appt.Status = domain.StatusConfirmed
		appt.IsPaid = true
		updated = appt
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	s.logger.Info("ConfirmPayment: appointment id=%d confirmed and marked paid", id)
	return updated, nil
}

// Cancel отменяет приём с указанием причины.
// Приём, оплаченный предоплаченным планом, возвращает сессию в план -
// в той же транзакции, что и отмена.
func (s *Service) Cancel(ctx context.Context, id int64, reason string) (*domain.Appointment, error) {
	var updated *domain.Appointment

	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		appt, err := s.getForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := domain.ValidateTransition(appt.Status, domain.StatusCancelled); err != nil {
			s.logger.Warn("Cancel: appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		if err := s.appointmentRepo.Cancel(ctx, id, reason); err != nil {
			s.logger.Error("Cancel: failed to cancel appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}

		if appt.IsPlanBacked() && appt.IsPaid {
			if err := s.entitlements.RefundUsage(ctx, *appt.PatientPlanID); err != nil {
				s.logger.Error("Cancel: failed to refund plan id=%d for appointment id=%d: %v",
					*appt.PatientPlanID, id, err)
				return fmt.Errorf("%w: failed to refund plan session: %v", ErrInternal, err)
			}
		}

		appt.Status = domain.StatusCancelled
		appt.CancellationReason = &reason
		updated = appt
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", id)
	return updated, nil
}

// UpdateDetails обновляет заметки и ссылку на видеовстречу.
// nil-поле означает "не менять".
func (s *Service) UpdateDetails(ctx context.Context, id int64, notes, meetingLink *string) (*domain.Appointment, error) {
	if notes == nil && meetingLink == nil {
		return s.GetByID(ctx, id)
	}

	if err := s.appointmentRepo.UpdateDetails(ctx, id, notes, meetingLink); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateDetails: failed to update appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to update details: %v", ErrInternal, err)
	}

	return s.GetByID(ctx, id)
}

// getForUpdate читает приём внутри транзакции; репозиторий добавляет FOR UPDATE,
// так что конкурентные переходы статуса сериализуются на строке приёма.
func (s *Service) getForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("getForUpdate: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	return appt, nil
}
