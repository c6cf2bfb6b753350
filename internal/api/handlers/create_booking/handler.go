package create_booking

import (
	"errors"
	"net/http"

	"github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers"
	"github.com/psicoadmin/PSA-AppointmentService/internal/api/middleware"
	createBooking "github.com/psicoadmin/PSA-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUser           = "отсутствует идентификатор пользователя"
	msgForeignPatient        = "нельзя создать приём за другого пациента"
	msgInvalidDate           = "некорректный формат даты приёма, ожидается YYYY-MM-DD"
	msgInvalidInput          = "некорректные данные приёма"
	msgDateInPast            = "дата приёма уже прошла"
	msgNoProfile             = "у специалиста нет профиля"
	msgNotAvailable          = "специалист недоступен в выбранное время"
	msgDateBlocked           = "специалист недоступен в выбранную дату"
	msgSlotConflict          = "выбранный временной слот уже занят"
	msgPlanInvalid           = "план недействителен для этого пациента"
	msgPlanWrongProfessional = "план относится к другому специалисту"
	msgPlanExhausted         = "в плане не осталось сессий"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Приём создается только от имени аутентифицированного пациента
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}
	if userID != req.PatientID {
		h.logger.Warn("POST /appointments - Patient mismatch: user_id=%d, patient_id=%d", userID, req.PatientID)
		handlers.RespondForbidden(w, msgForeignPatient)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: patient_id=%d, psychologist_id=%d, error=%v",
				req.PatientID, req.PsychologistID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /appointments - Date in past: patient_id=%d, date=%s",
				req.PatientID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrNoProfessionalProfile):
			h.logger.Warn("POST /appointments - No professional profile: psychologist_id=%d", req.PsychologistID)
			handlers.RespondNotFound(w, msgNoProfile)

		case errors.Is(err, createBooking.ErrNotAvailable):
			h.logger.Warn("POST /appointments - Not available: psychologist_id=%d, date=%s, start=%s",
				req.PsychologistID, req.AppointmentDate, req.StartTime)
			handlers.RespondBadRequest(w, msgNotAvailable)

		case errors.Is(err, createBooking.ErrDateBlocked):
			h.logger.Warn("POST /appointments - Date blocked: psychologist_id=%d, date=%s",
				req.PsychologistID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateBlocked)

		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: psychologist_id=%d, date=%s, start=%s",
				req.PsychologistID, req.AppointmentDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createBooking.ErrPlanInvalid):
			h.logger.Warn("POST /appointments - Plan invalid: patient_id=%d", req.PatientID)
			handlers.RespondBadRequest(w, msgPlanInvalid)

		case errors.Is(err, createBooking.ErrPlanWrongProfessional):
			h.logger.Warn("POST /appointments - Plan wrong professional: patient_id=%d, psychologist_id=%d",
				req.PatientID, req.PsychologistID)
			handlers.RespondBadRequest(w, msgPlanWrongProfessional)

		case errors.Is(err, createBooking.ErrPlanExhausted):
			h.logger.Warn("POST /appointments - Plan exhausted: patient_id=%d", req.PatientID)
			handlers.RespondConflict(w, msgPlanExhausted)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: patient_id=%d, psychologist_id=%d, error=%v",
				req.PatientID, req.PsychologistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, patient_id=%d, psychologist_id=%d, status=%s",
		result.Appointment.ID, req.PatientID, req.PsychologistID, result.Appointment.Status)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromAppointment(result.Appointment))
}
