package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrDateInPast возвращается при попытке забронировать прошедшую дату
	ErrDateInPast = errors.New("create_booking: appointment date is in the past")

	// ErrNoProfessionalProfile возвращается, когда у специалиста нет профиля.
	// Без профиля невозможно определить длительность сессии и тариф.
	ErrNoProfessionalProfile = errors.New("create_booking: psychologist has no professional profile")

	// ErrNotAvailable возвращается, когда интервал не покрыт ни одним
	// активным правилом доступности психолога
	ErrNotAvailable = errors.New("create_booking: psychologist is not available at this time")

	// ErrDateBlocked возвращается, когда дата заблокирована в правиле доступности
	ErrDateBlocked = errors.New("create_booking: psychologist is not available on this date")

	// ErrSlotConflict возвращается, когда слот занят другим активным приёмом
	ErrSlotConflict = errors.New("create_booking: slot is already taken")

	// ErrPlanInvalid возвращается, когда план не существует, не принадлежит
	// пациенту или деактивирован
	ErrPlanInvalid = errors.New("create_booking: patient plan is invalid")

	// ErrPlanWrongProfessional возвращается, когда план куплен у другого специалиста
	ErrPlanWrongProfessional = errors.New("create_booking: plan is not valid for this psychologist")

	// ErrPlanExhausted возвращается, когда в плане не осталось сессий
	ErrPlanExhausted = errors.New("create_booking: no sessions remaining in plan")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
