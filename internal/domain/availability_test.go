package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

func TestAvailabilityRule_Covers(t *testing.T) {
	rule := &AvailabilityRule{
		StartTime: types.TimeString("09:00"),
		EndTime:   types.TimeString("13:00"),
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"целиком внутри окна", "10:00", "11:00", true},
		{"совпадает с окном", "09:00", "13:00", true},
		{"начинается до окна", "08:00", "10:00", false},
		{"заканчивается после окна", "12:30", "13:30", false},
		{"целиком вне окна", "14:00", "15:00", false},
		{"упирается в конец окна", "12:00", "13:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rule.Covers(types.TimeString(tt.start), types.TimeString(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailabilityRule_IsBlockedOn(t *testing.T) {
	rule := &AvailabilityRule{
		BlockedDates: []string{"2026-09-14", "2026-09-21"},
	}

	blocked := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	free := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, rule.IsBlockedOn(blocked))
	assert.False(t, rule.IsBlockedOn(free))
}

func TestWeekdayOf(t *testing.T) {
	// 2026-09-14 - понедельник
	monday := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeekdayOf(monday))

	sunday := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 6, WeekdayOf(sunday))

	wednesday := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, WeekdayOf(wednesday))
}
