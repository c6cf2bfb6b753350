package domain

import (
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// AppointmentType represents the modality of an appointment
type AppointmentType string

const (
	TypeInPerson AppointmentType = "in_person"
	TypeVirtual  AppointmentType = "virtual"
)

// Appointment represents a session between a patient and a psychologist
type Appointment struct {
	ID              int64
	PatientID       int64
	PsychologistID  int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	AppointmentType AppointmentType
	Status          AppointmentStatus

	ReasonForVisit  string
	Notes           *string
	MeetingLink     *string
	ConsultationFee float64
	IsPaid          bool
	PatientPlanID   *int64 // Ссылка на план пациента, если приём оплачен планом

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment holds its time slot
// (only pending and confirmed appointments block the calendar)
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsTerminal returns true if the appointment reached a final state
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// IsAbandoned returns true if the appointment is a phantom reservation
// left behind by an incomplete payment flow
func (a *Appointment) IsAbandoned() bool {
	return a.Status == StatusPending && !a.IsPaid
}

// IsPlanBacked returns true if the appointment is covered by a patient plan
func (a *Appointment) IsPlanBacked() bool {
	return a.PatientPlanID != nil
}

// CanBeRescheduled returns true if date/time of the appointment may change
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Overlaps проверяет пересечение с полуоткрытым интервалом [start, end).
// Граничные случаи (приём заканчивается ровно в start) пересечением не считаются.
func (a *Appointment) Overlaps(start, end types.TimeString) bool {
	return a.StartTime.IsBefore(end) && a.EndTime.IsAfter(start)
}

// AppointmentsFilter фильтр для выборки приёмов психолога
type AppointmentsFilter struct {
	PsychologistID  int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли завершенные/отмененные приёмы
}
