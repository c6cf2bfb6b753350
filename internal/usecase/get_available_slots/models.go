package get_available_slots

import (
	"time"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	PsychologistID int64     // ID психолога
	Date           time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	PsychologistID  int64                  // ID психолога
	Date            time.Time              // Дата, на которую запрашивались слоты
	DurationMinutes int                    // Длительность сессии специалиста
	Slots           []domain.AvailableSlot // Слоты в порядке времени начала
}
