package profileservice

// Profile профессиональный профиль психолога из ProfileService
type Profile struct {
	PsychologistID         int64   `json:"psychologist_id"`
	FullName               string  `json:"full_name"`
	SessionDurationMinutes int     `json:"session_duration"`
	ConsultationFee        float64 `json:"consultation_fee"`
	IsActive               bool    `json:"is_active"`
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
