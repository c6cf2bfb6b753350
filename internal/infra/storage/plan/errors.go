package plan

import "errors"

var (
	// ErrPlanNotFound возвращается, когда план пациента не найден
	ErrPlanNotFound = errors.New("plan.repository: patient plan not found")

	// ErrNoSessionsLeft возвращается, когда в плане не осталось сессий для списания.
	// Защитное условие sessions_used < total_sessions в UPDATE держит инвариант
	// sessions_used <= total_sessions даже при конкурентных списаниях.
	ErrNoSessionsLeft = errors.New("plan.repository: no sessions left to debit")

	// ErrNothingToRefund возвращается при попытке вернуть сессию в план без списаний
	ErrNothingToRefund = errors.New("plan.repository: nothing to refund")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("plan.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("plan.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("plan.repository: failed to scan row")
)
