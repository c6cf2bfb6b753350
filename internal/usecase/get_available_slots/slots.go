package get_available_slots

import (
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// generateRuleSlots генерирует кандидатов слотов по одному правилу доступности.
// Шагает от начала окна правила с шагом durationMinutes, пока конец кандидата
// не выходит за конец окна. Кандидат помечается занятым, если пересекается
// с активным (pending/confirmed) приёмом.
func generateRuleSlots(
	rule *domain.AvailabilityRule,
	durationMinutes int,
	appointments []*domain.Appointment,
) ([]domain.AvailableSlot, error) {
	slots := make([]domain.AvailableSlot, 0)

	current := rule.StartTime
	for {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(rule.EndTime) {
			break
		}

		slots = append(slots, domain.AvailableSlot{
			StartTime:   current,
			EndTime:     slotEnd,
			IsAvailable: !hasOverlappingAppointment(current, slotEnd, appointments),
		})

		current = slotEnd
	}

	return slots, nil
}

// hasOverlappingAppointment проверяет пересечение кандидата [start, end)
// с активными приёмами. Полуоткрытый тест со строгими неравенствами:
// граничащие интервалы (приём заканчивается ровно в start) пересечением не считаются.
func hasOverlappingAppointment(start, end types.TimeString, appointments []*domain.Appointment) bool {
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		if appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
