package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/garage-management/internal/vehicle/domain"
	"github.com/tair/garage-management/pkg/logger"
)

// VehicleHandler handles HTTP requests for vehicles
type VehicleHandler struct {
	repo domain.VehicleRepository
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(repo domain.VehicleRepository) *VehicleHandler {
	return &VehicleHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers vehicle routes on the router
func (h *VehicleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/vehicles", h.CreateVehicle).Methods("POST")
	router.HandleFunc("/api/vehicles", h.ListVehicles).Methods("GET")
	router.HandleFunc("/api/vehicles/{id:[0-9]+}", h.GetVehicle).Methods("GET")
	router.HandleFunc("/api/vehicles/{id:[0-9]+}", h.UpdateVehicle).Methods("PATCH", "PUT")
	router.HandleFunc("/api/vehicles/{id:[0-9]+}", h.DeleteVehicle).Methods("DELETE")
}

// CreateVehicle handles POST /api/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle domain.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if vehicle.CustomerID == 0 || vehicle.Make == "" || vehicle.Model == "" || vehicle.LicensePlate == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "customer_id, make, model and license_plate are required"})
		return
	}
	if vehicle.Year != 0 && (vehicle.Year < 1900 || vehicle.Year > time.Now().Year()+1) {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "year is out of range"})
		return
	}

	if err := h.repo.Create(r.Context(), &vehicle); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create vehicle")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Vehicle created successfully",
		Data:    vehicle,
	})
}

// GetVehicle handles GET /api/vehicles/{id}
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	vehicle, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Vehicle not found"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: vehicle})
}

// ListVehicles handles GET /api/vehicles with optional customer filter
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid customer_id"})
			return
		}
		vehicles, err := h.repo.FindByCustomer(r.Context(), uint(customerID))
		if err != nil {
			logger.Error(r.Context()).Err(err).Msg("Failed to list vehicles")
			respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list vehicles"})
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Data: vehicles})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 15
	}
	vehicles, err := h.repo.FindAll(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list vehicles")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list vehicles"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: vehicles})
}

// UpdateVehicle handles PATCH /api/vehicles/{id}
func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	vehicle, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Vehicle not found"})
		return
	}

	var req struct {
		CustomerID   *uint   `json:"customer_id"`
		Make         *string `json:"make"`
		Model        *string `json:"model"`
		Year         *int    `json:"year"`
		LicensePlate *string `json:"license_plate"`
		VIN          *string `json:"vin"`
		Color        *string `json:"color"`
		Mileage      *int    `json:"mileage"`
		Notes        *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if req.CustomerID != nil {
		vehicle.CustomerID = *req.CustomerID
	}
	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.LicensePlate != nil {
		vehicle.LicensePlate = *req.LicensePlate
	}
	if req.VIN != nil {
		vehicle.VIN = *req.VIN
	}
	if req.Color != nil {
		vehicle.Color = *req.Color
	}
	if req.Mileage != nil {
		vehicle.Mileage = *req.Mileage
	}
	if req.Notes != nil {
		vehicle.Notes = *req.Notes
	}

	if err := h.repo.Update(r.Context(), vehicle); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update vehicle")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Vehicle updated successfully",
		Data:    vehicle,
	})
}

// DeleteVehicle handles DELETE /api/vehicles/{id}
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Vehicle deleted successfully"})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid vehicle ID"})
		return 0, false
	}
	return uint(id), true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
