package get_professional_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

// ToFilter собирает фильтр сервиса из path и query параметров
func ToFilter(professionalID int64, startDateStr, endDateStr, statusStr, includeInactiveStr string) (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		PsychologistID: professionalID,
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return filter, fmt.Errorf("invalid startDate: %w", err)
		}
		filter.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return filter, fmt.Errorf("invalid endDate: %w", err)
		}
		filter.EndDate = &endDate
	}

	if statusStr != "" {
		status, ok := domain.ParseStatus(statusStr)
		if !ok {
			return filter, fmt.Errorf("invalid status %q", statusStr)
		}
		filter.Status = &status
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return filter, fmt.Errorf("invalid includeInactive: %w", err)
		}
		filter.IncludeInactive = includeInactive
	}

	return filter, nil
}
