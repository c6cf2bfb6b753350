package domain

import "fmt"

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// allowedTransitions таблица разрешенных переходов статусов.
// Терминальные статусы (completed, cancelled, no_show) не имеют исходящих переходов.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// TransitionError ошибка недопустимого перехода статуса,
// содержит оба статуса для диагностики
type TransitionError struct {
	Current   AppointmentStatus
	Requested AppointmentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("domain: invalid status transition from %q to %q", e.Current, e.Requested)
}

// ValidateTransition проверяет допустимость перехода current -> requested.
// Возвращает *TransitionError, если переход запрещен таблицей переходов.
func ValidateTransition(current, requested AppointmentStatus) error {
	for _, allowed := range allowedTransitions[current] {
		if requested == allowed {
			return nil
		}
	}
	return &TransitionError{Current: current, Requested: requested}
}

// ParseStatus конвертирует строку в AppointmentStatus с валидацией
func ParseStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return status, true
	default:
		return "", false
	}
}

// ParseAppointmentType конвертирует строку в AppointmentType с валидацией
func ParseAppointmentType(s string) (AppointmentType, bool) {
	t := AppointmentType(s)
	switch t {
	case TypeInPerson, TypeVirtual:
		return t, true
	default:
		return "", false
	}
}
