package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition(t *testing.T) {
	allStatuses := []AppointmentStatus{
		StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow,
	}

	allowed := map[AppointmentStatus]map[AppointmentStatus]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusCompleted: true, StatusCancelled: true, StatusNoShow: true},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := ValidateTransition(from, to)
			if allowed[from][to] {
				assert.NoError(t, err, "transition %s -> %s should be allowed", from, to)
			} else {
				assert.Error(t, err, "transition %s -> %s should be rejected", from, to)
			}
		}
	}
}

func TestValidateTransition_ErrorDetails(t *testing.T) {
	err := ValidateTransition(StatusCancelled, StatusConfirmed)
	require.Error(t, err)

	var transitionErr *TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, StatusCancelled, transitionErr.Current)
	assert.Equal(t, StatusConfirmed, transitionErr.Requested)
	assert.Contains(t, err.Error(), "cancelled")
	assert.Contains(t, err.Error(), "confirmed")
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	err := ValidateTransition(AppointmentStatus("bogus"), StatusConfirmed)
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("confirmed")
	require.True(t, ok)
	assert.Equal(t, StatusConfirmed, status)

	_, ok = ParseStatus("unknown")
	assert.False(t, ok)

	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestParseAppointmentType(t *testing.T) {
	typ, ok := ParseAppointmentType("virtual")
	require.True(t, ok)
	assert.Equal(t, TypeVirtual, typ)

	_, ok = ParseAppointmentType("by_phone")
	assert.False(t, ok)
}
