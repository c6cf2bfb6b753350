package entitlements

import "errors"

var (
	// ErrPlanInvalid возвращается, когда план не существует, не принадлежит пациенту
	// или деактивирован
	ErrPlanInvalid = errors.New("entitlements: plan is invalid for this patient")

	// ErrPlanWrongProfessional возвращается, когда план куплен у другого специалиста
	ErrPlanWrongProfessional = errors.New("entitlements: plan is not valid for this psychologist")

	// ErrPlanExhausted возвращается, когда в плане не осталось сессий
	ErrPlanExhausted = errors.New("entitlements: no sessions remaining in plan")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("entitlements: internal error")
)
