package domain

import "time"

// PatientPlan prepaid bundle of sessions a patient purchased from a psychologist.
// Purchase happens in the payment subsystem; the engine only consumes sessions.
type PatientPlan struct {
	ID             int64
	PatientID      int64
	PsychologistID int64 // Психолог, к которому относится план
	PlanTitle      string
	TotalSessions  int
	SessionsUsed   int
	IsActive       bool

	PurchasedAt time.Time
}

// SessionsRemaining возвращает количество оставшихся сессий плана.
// Инвариант sessions_used <= total_sessions гарантирует неотрицательный результат.
func (p *PatientPlan) SessionsRemaining() int {
	return p.TotalSessions - p.SessionsUsed
}

// HasRemainingSessions проверяет, остались ли неиспользованные сессии
func (p *PatientPlan) HasRemainingSessions() bool {
	return p.SessionsRemaining() > 0
}

// BelongsTo проверяет принадлежность плана пациенту
func (p *PatientPlan) BelongsTo(patientID int64) bool {
	return p.PatientID == patientID
}
