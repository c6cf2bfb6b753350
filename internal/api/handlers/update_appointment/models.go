package update_appointment

// UpdateAppointmentRequest HTTP request model.
// Все поля опциональны; date и startTime задаются вместе и означают перенос.
type UpdateAppointmentRequest struct {
	Status          *string `json:"status,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	MeetingLink     *string `json:"meetingLink,omitempty"`
	AppointmentDate *string `json:"appointmentDate,omitempty"` // "2026-09-15"
	StartTime       *string `json:"startTime,omitempty"`       // "10:00"
}

func (r *UpdateAppointmentRequest) hasReschedule() bool {
	return r.AppointmentDate != nil || r.StartTime != nil
}

func (r *UpdateAppointmentRequest) hasDetails() bool {
	return r.Notes != nil || r.MeetingLink != nil
}

func (r *UpdateAppointmentRequest) isEmpty() bool {
	return r.Status == nil && !r.hasReschedule() && !r.hasDetails()
}
