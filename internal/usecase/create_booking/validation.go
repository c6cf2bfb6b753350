package create_booking

import (
	"fmt"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

const maxReasonLength = 1000

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.PsychologistID <= 0 {
		return fmt.Errorf("%w: psychologistID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if req.AppointmentType != domain.TypeInPerson &&
		req.AppointmentType != domain.TypeVirtual {
		return fmt.Errorf("%w: unknown appointment type %q", ErrInvalidInput, req.AppointmentType)
	}

	if req.ReasonForVisit == "" {
		return fmt.Errorf("%w: reasonForVisit is required", ErrInvalidInput)
	}

	if len(req.ReasonForVisit) > maxReasonLength {
		return fmt.Errorf("%w: reasonForVisit exceeds %d characters", ErrInvalidInput, maxReasonLength)
	}

	if req.PatientPlanID != nil && *req.PatientPlanID <= 0 {
		return fmt.Errorf("%w: patientPlanID must be positive", ErrInvalidInput)
	}

	return nil
}
