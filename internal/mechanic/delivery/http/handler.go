package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/garage-management/internal/mechanic/domain"
	"github.com/tair/garage-management/pkg/logger"
)

// MechanicHandler handles HTTP requests for mechanics
type MechanicHandler struct {
	repo domain.MechanicRepository
}

// NewMechanicHandler creates a new mechanic handler
func NewMechanicHandler(repo domain.MechanicRepository) *MechanicHandler {
	return &MechanicHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers mechanic routes on the router
func (h *MechanicHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/mechanics", h.CreateMechanic).Methods("POST")
	router.HandleFunc("/api/mechanics", h.ListMechanics).Methods("GET")
	router.HandleFunc("/api/mechanics/{id:[0-9]+}", h.GetMechanic).Methods("GET")
	router.HandleFunc("/api/mechanics/{id:[0-9]+}", h.UpdateMechanic).Methods("PATCH", "PUT")
	router.HandleFunc("/api/mechanics/{id:[0-9]+}", h.DeleteMechanic).Methods("DELETE")
}

// CreateMechanic handles POST /api/mechanics
func (h *MechanicHandler) CreateMechanic(w http.ResponseWriter, r *http.Request) {
	var mechanic domain.Mechanic
	if err := json.NewDecoder(r.Body).Decode(&mechanic); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if mechanic.Name == "" || mechanic.Email == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "name and email are required"})
		return
	}
	if mechanic.HourlyRate < 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "hourly_rate cannot be negative"})
		return
	}
	if mechanic.Status == "" {
		mechanic.Status = domain.StatusActive
	}
	if !domain.ValidStatus(mechanic.Status) {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "invalid status: " + mechanic.Status})
		return
	}
	if mechanic.HireDate == nil {
		now := time.Now()
		mechanic.HireDate = &now
	}

	if err := h.repo.Create(r.Context(), &mechanic); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create mechanic")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Mechanic created successfully",
		Data:    mechanic,
	})
}

// GetMechanic handles GET /api/mechanics/{id}
func (h *MechanicHandler) GetMechanic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	mechanic, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Mechanic not found"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: mechanic})
}

// ListMechanics handles GET /api/mechanics with optional active filter
func (h *MechanicHandler) ListMechanics(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("active") == "true" {
		mechanics, err := h.repo.FindActive(r.Context())
		if err != nil {
			logger.Error(r.Context()).Err(err).Msg("Failed to list mechanics")
			respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list mechanics"})
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Data: mechanics})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 15
	}
	mechanics, err := h.repo.FindAll(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list mechanics")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list mechanics"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: mechanics})
}

// UpdateMechanic handles PATCH /api/mechanics/{id}
func (h *MechanicHandler) UpdateMechanic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	mechanic, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Mechanic not found"})
		return
	}

	var req struct {
		Name           *string    `json:"name"`
		Email          *string    `json:"email"`
		Phone          *string    `json:"phone"`
		Specialization *string    `json:"specialization"`
		HourlyRate     *float64   `json:"hourly_rate"`
		HireDate       *time.Time `json:"hire_date"`
		Status         *string    `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "hourly_rate cannot be negative"})
		return
	}
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "invalid status: " + *req.Status})
		return
	}

	if req.Name != nil {
		mechanic.Name = *req.Name
	}
	if req.Email != nil {
		mechanic.Email = *req.Email
	}
	if req.Phone != nil {
		mechanic.Phone = *req.Phone
	}
	if req.Specialization != nil {
		mechanic.Specialization = *req.Specialization
	}
	if req.HourlyRate != nil {
		mechanic.HourlyRate = *req.HourlyRate
	}
	if req.HireDate != nil {
		mechanic.HireDate = req.HireDate
	}
	if req.Status != nil {
		mechanic.Status = *req.Status
	}

	if err := h.repo.Update(r.Context(), mechanic); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update mechanic")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Mechanic updated successfully",
		Data:    mechanic,
	})
}

// DeleteMechanic handles DELETE /api/mechanics/{id}
func (h *MechanicHandler) DeleteMechanic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Mechanic deleted successfully"})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid mechanic ID"})
		return 0, false
	}
	return uint(id), true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
