package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/garage-management/internal/appointment/domain"
	"github.com/tair/garage-management/pkg/logger"
)

// AppointmentHandler handles HTTP requests for appointments
type AppointmentHandler struct {
	repo domain.AppointmentRepository
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(repo domain.AppointmentRepository) *AppointmentHandler {
	return &AppointmentHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers appointment routes on the router
func (h *AppointmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/appointments", h.CreateAppointment).Methods("POST")
	router.HandleFunc("/api/appointments", h.ListAppointments).Methods("GET")
	router.HandleFunc("/api/appointments/upcoming", h.ListUpcoming).Methods("GET")
	router.HandleFunc("/api/appointments/{id:[0-9]+}", h.GetAppointment).Methods("GET")
	router.HandleFunc("/api/appointments/{id:[0-9]+}", h.UpdateAppointment).Methods("PATCH", "PUT")
	router.HandleFunc("/api/appointments/{id:[0-9]+}", h.DeleteAppointment).Methods("DELETE")
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var appointment domain.Appointment
	if err := json.NewDecoder(r.Body).Decode(&appointment); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if appointment.CustomerID == 0 || appointment.VehicleID == 0 || appointment.ServiceType == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "customer_id, vehicle_id and service_type are required"})
		return
	}
	if appointment.ScheduledAt.IsZero() {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "scheduled_at is required"})
		return
	}
	if appointment.Status == "" {
		appointment.Status = domain.StatusScheduled
	}
	if !domain.ValidStatus(appointment.Status) {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "invalid status: " + appointment.Status})
		return
	}

	if err := h.repo.Create(r.Context(), &appointment); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create appointment")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Appointment created successfully",
		Data:    appointment,
	})
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	appointment, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Appointment not found"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: appointment})
}

// ListAppointments handles GET /api/appointments with optional customer filter
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid customer_id"})
			return
		}
		appointments, err := h.repo.FindByCustomer(r.Context(), uint(customerID))
		if err != nil {
			logger.Error(r.Context()).Err(err).Msg("Failed to list appointments")
			respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list appointments"})
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Data: appointments})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 15
	}
	appointments, err := h.repo.FindAll(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list appointments")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list appointments"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: appointments})
}

// ListUpcoming handles GET /api/appointments/upcoming
func (h *AppointmentHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 15
	}
	appointments, err := h.repo.FindUpcoming(r.Context(), time.Now(), limit)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list upcoming appointments")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list upcoming appointments"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: appointments})
}

// UpdateAppointment handles PATCH /api/appointments/{id}
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	appointment, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Appointment not found"})
		return
	}

	var req struct {
		CustomerID  *uint      `json:"customer_id"`
		VehicleID   *uint      `json:"vehicle_id"`
		ScheduledAt *time.Time `json:"scheduled_at"`
		ServiceType *string    `json:"service_type"`
		Status      *string    `json:"status"`
		Notes       *string    `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "invalid status: " + *req.Status})
		return
	}

	if req.CustomerID != nil {
		appointment.CustomerID = *req.CustomerID
	}
	if req.VehicleID != nil {
		appointment.VehicleID = *req.VehicleID
	}
	if req.ScheduledAt != nil {
		appointment.ScheduledAt = *req.ScheduledAt
	}
	if req.ServiceType != nil {
		appointment.ServiceType = *req.ServiceType
	}
	if req.Status != nil {
		appointment.Status = *req.Status
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if err := h.repo.Update(r.Context(), appointment); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update appointment")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Appointment updated successfully",
		Data:    appointment,
	})
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Appointment deleted successfully"})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid appointment ID"})
		return 0, false
	}
	return uint(id), true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
