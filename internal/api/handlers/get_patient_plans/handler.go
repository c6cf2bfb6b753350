package get_patient_plans

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidPatientID = "некорректный ID пациента"
)

type Handler struct {
	service EntitlementService
	logger  Logger
}

func NewHandler(service EntitlementService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/patients/{patientId}/plans
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем patientId из URL
	vars := mux.Vars(r)
	patientIDStr := vars["patientId"]

	patientID, err := strconv.ParseInt(patientIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /patients/{id}/plans - Invalid patient ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}

	plans, err := h.service.ListActivePlans(r.Context(), patientID)
	if err != nil {
		h.logger.Error("GET /patients/{id}/plans - Failed to get plans: patient_id=%d, error=%v", patientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /patients/{id}/plans - Plans retrieved successfully: patient_id=%d, count=%d",
		patientID, len(plans))
	handlers.RespondJSON(w, http.StatusOK, FromPlans(plans))
}
