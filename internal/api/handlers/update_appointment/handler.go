package update_appointment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers"
	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/internal/service/appointments"
	rescheduleBooking "github.com/psicoadmin/PSA-AppointmentService/internal/usecase/reschedule_booking"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

const (
	msgInvalidAppointmentID = "некорректный ID приёма"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgEmptyUpdate          = "не указано ни одного поля для обновления"
	msgInvalidStatus        = "некорректный статус приёма"
	msgInvalidTransition    = "недопустимый переход статуса"
	msgIncompleteReschedule = "для переноса нужны оба поля: appointmentDate и startTime"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime          = "некорректный формат времени, ожидается HH:MM"
	msgNotFound             = "приём не найден"
	msgNotReschedulable     = "приём в завершённом статусе нельзя перенести"
	msgDateInPast           = "дата приёма уже прошла"
	msgNotAvailable         = "специалист недоступен в выбранное время"
	msgDateBlocked          = "специалист недоступен в выбранную дату"
	msgSlotConflict         = "выбранный временной слот уже занят"
)

type Handler struct {
	service           AppointmentService
	rescheduleUseCase RescheduleBookingUseCase
	logger            Logger
}

func NewHandler(service AppointmentService, rescheduleUseCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		service:           service,
		rescheduleUseCase: rescheduleUseCase,
		logger:            logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}
// Обновления применяются по порядку: перенос, статус, детали.
// Ошибка на любом шаге прерывает обработку.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем appointmentId из URL
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.isEmpty() {
		h.logger.Warn("PATCH /appointments/{id} - Empty update: appointment_id=%d", appointmentID)
		handlers.RespondBadRequest(w, msgEmptyUpdate)
		return
	}

	var updated *domain.Appointment

	// 1. Перенос на другой слот
	if req.hasReschedule() {
		updated, err = h.reschedule(w, r, appointmentID, &req)
		if err != nil {
			return
		}
	}

	// 2. Переход статуса
	if req.Status != nil {
		status, ok := domain.ParseStatus(*req.Status)
		if !ok {
			h.logger.Warn("PATCH /appointments/{id} - Invalid status %q: appointment_id=%d",
				*req.Status, appointmentID)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}

		updated, err = h.service.UpdateStatus(r.Context(), appointmentID, status)
		if err != nil {
			switch {
			case errors.Is(err, appointments.ErrAppointmentNotFound):
				h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
				handlers.RespondNotFound(w, msgNotFound)

			case errors.Is(err, appointments.ErrInvalidTransition):
				h.logger.Warn("PATCH /appointments/{id} - Invalid transition: appointment_id=%d, error=%v",
					appointmentID, err)
				handlers.RespondConflict(w, msgInvalidTransition)

			default:
				h.logger.Error("PATCH /appointments/{id} - Failed to update status: appointment_id=%d, error=%v",
					appointmentID, err)
				handlers.RespondInternalError(w)
			}
			return
		}
	}

	// 3. Заметки и ссылка на видеовстречу
	if req.hasDetails() {
		updated, err = h.service.UpdateDetails(r.Context(), appointmentID, req.Notes, req.MeetingLink)
		if err != nil {
			switch {
			case errors.Is(err, appointments.ErrAppointmentNotFound):
				h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
				handlers.RespondNotFound(w, msgNotFound)

			default:
				h.logger.Error("PATCH /appointments/{id} - Failed to update details: appointment_id=%d, error=%v",
					appointmentID, err)
				handlers.RespondInternalError(w)
			}
			return
		}
	}

	h.logger.Info("PATCH /appointments/{id} - Appointment updated successfully: appointment_id=%d", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromAppointment(updated))
}

// reschedule выполняет перенос приёма. При ошибке пишет ответ и возвращает err,
// сигнализируя вызывающему коду прекратить обработку.
func (h *Handler) reschedule(w http.ResponseWriter, r *http.Request, appointmentID int64, req *UpdateAppointmentRequest) (*domain.Appointment, error) {
	if req.AppointmentDate == nil || req.StartTime == nil {
		h.logger.Warn("PATCH /appointments/{id} - Incomplete reschedule: appointment_id=%d", appointmentID)
		handlers.RespondBadRequest(w, msgIncompleteReschedule)
		return nil, errors.New("incomplete reschedule")
	}

	date, err := time.Parse(domain.DateFormat, *req.AppointmentDate)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid date %q: %v", *req.AppointmentDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(*req.StartTime)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid time %q: %v", *req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return nil, err
	}

	result, err := h.rescheduleUseCase.Execute(r.Context(), &rescheduleBooking.Request{
		AppointmentID: appointmentID,
		Date:          date,
		StartTime:     startTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id} - Invalid reschedule input: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, rescheduleBooking.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrNotReschedulable):
			h.logger.Warn("PATCH /appointments/{id} - Not reschedulable: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotReschedulable)

		case errors.Is(err, rescheduleBooking.ErrDateInPast):
			h.logger.Warn("PATCH /appointments/{id} - Date in past: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, rescheduleBooking.ErrNotAvailable):
			h.logger.Warn("PATCH /appointments/{id} - Not available: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgNotAvailable)

		case errors.Is(err, rescheduleBooking.ErrDateBlocked):
			h.logger.Warn("PATCH /appointments/{id} - Date blocked: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgDateBlocked)

		case errors.Is(err, rescheduleBooking.ErrSlotConflict):
			h.logger.Warn("PATCH /appointments/{id} - Slot conflict: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("PATCH /appointments/{id} - Failed to reschedule: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return nil, err
	}

	return result.Appointment, nil
}
