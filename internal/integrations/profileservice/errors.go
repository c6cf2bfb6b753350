package profileservice

import "errors"

var (
	// ErrProfileNotFound возвращается, когда у специалиста нет профессионального профиля
	ErrProfileNotFound = errors.New("psychologist has no professional profile")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("profileservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("profileservice client: invalid response")
)
