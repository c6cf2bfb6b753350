package domain

import "github.com/psicoadmin/PSA-AppointmentService/pkg/types"

// AvailableSlot candidate bookable interval derived from an availability rule.
// Never persisted - generated on the fly for each listing request.
type AvailableSlot struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
}
