package reschedule_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrAppointmentNotFound возвращается, когда приём не найден
	ErrAppointmentNotFound = errors.New("reschedule_booking: appointment not found")

	// ErrNotReschedulable возвращается при попытке перенести приём
	// в завершённом статусе
	ErrNotReschedulable = errors.New("reschedule_booking: appointment can not be rescheduled")

	// ErrDateInPast возвращается при попытке перенести приём на прошедшую дату
	ErrDateInPast = errors.New("reschedule_booking: appointment date is in the past")

	// ErrNotAvailable возвращается, когда новый интервал не покрыт ни одним
	// активным правилом доступности психолога
	ErrNotAvailable = errors.New("reschedule_booking: psychologist is not available at this time")

	// ErrDateBlocked возвращается, когда новая дата заблокирована в правиле доступности
	ErrDateBlocked = errors.New("reschedule_booking: psychologist is not available on this date")

	// ErrSlotConflict возвращается, когда новый слот занят другим активным приёмом
	ErrSlotConflict = errors.New("reschedule_booking: slot is already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
