package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/psicoadmin/PSA-AppointmentService/pkg/ptr"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

func TestAppointment_Overlaps(t *testing.T) {
	appt := &Appointment{
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"полное совпадение", "10:00", "11:00", true},
		{"частичное пересечение в начале", "09:30", "10:30", true},
		{"частичное пересечение в конце", "10:30", "11:30", true},
		{"новый внутри существующего", "10:15", "10:45", true},
		{"существующий внутри нового", "09:00", "12:00", true},
		{"встык до", "09:00", "10:00", false},
		{"встык после", "11:00", "12:00", false},
		{"без пересечения", "13:00", "14:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := appt.Overlaps(types.TimeString(tt.start), types.TimeString(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppointment_IsActive(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).IsActive())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCompleted}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Appointment{Status: StatusNoShow}).IsActive())
}

func TestAppointment_IsAbandoned(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending, IsPaid: false}).IsAbandoned())
	assert.False(t, (&Appointment{Status: StatusPending, IsPaid: true}).IsAbandoned())
	assert.False(t, (&Appointment{Status: StatusConfirmed, IsPaid: false}).IsAbandoned())
}

func TestAppointment_IsPlanBacked(t *testing.T) {
	assert.True(t, (&Appointment{PatientPlanID: ptr.Ptr(int64(7))}).IsPlanBacked())
	assert.False(t, (&Appointment{}).IsPlanBacked())
}
