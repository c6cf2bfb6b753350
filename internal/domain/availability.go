package domain

import (
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// AvailabilityRule recurring weekly window during which a psychologist may be booked.
// Rules are authored by the psychologist in the admin UI and are read-only here.
// Several rules may share a weekday (split shifts).
type AvailabilityRule struct {
	ID             int64
	PsychologistID int64
	Weekday        int // 0 = понедельник ... 6 = воскресенье
	StartTime      types.TimeString
	EndTime        types.TimeString
	IsActive       bool
	BlockedDates   []string // Даты-исключения в формате YYYY-MM-DD

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers проверяет, что окно правила целиком содержит интервал [start, end)
func (r *AvailabilityRule) Covers(start, end types.TimeString) bool {
	return !r.StartTime.IsAfter(start) && !r.EndTime.IsBefore(end)
}

// IsBlockedOn проверяет, что дата входит в список заблокированных дат правила
func (r *AvailabilityRule) IsBlockedOn(date time.Time) bool {
	key := date.Format(DateFormat)
	for _, blocked := range r.BlockedDates {
		if blocked == key {
			return true
		}
	}
	return false
}

// WeekdayOf конвертирует time.Time в номер дня недели правила
// (0 = понедельник, как в админке расписаний)
func WeekdayOf(date time.Time) int {
	wd := int(date.Weekday()) // Go: 0 = воскресенье
	return (wd + 6) % 7
}
