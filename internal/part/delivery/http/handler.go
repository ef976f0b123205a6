package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/garage-management/internal/part/domain"
	"github.com/tair/garage-management/pkg/logger"
)

// PartHandler handles HTTP requests for parts
type PartHandler struct {
	repo domain.PartRepository
}

// NewPartHandler creates a new part handler
func NewPartHandler(repo domain.PartRepository) *PartHandler {
	return &PartHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers part routes on the router
func (h *PartHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/parts", h.CreatePart).Methods("POST")
	router.HandleFunc("/api/parts", h.ListParts).Methods("GET")
	router.HandleFunc("/api/parts/low-stock", h.ListLowStock).Methods("GET")
	router.HandleFunc("/api/parts/{id:[0-9]+}", h.GetPart).Methods("GET")
	router.HandleFunc("/api/parts/{id:[0-9]+}", h.UpdatePart).Methods("PATCH", "PUT")
	router.HandleFunc("/api/parts/{id:[0-9]+}", h.DeletePart).Methods("DELETE")
}

// CreatePart handles POST /api/parts
func (h *PartHandler) CreatePart(w http.ResponseWriter, r *http.Request) {
	var part domain.Part
	if err := json.NewDecoder(r.Body).Decode(&part); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if part.Name == "" || part.PartNumber == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "name and part_number are required"})
		return
	}
	if part.StockQuantity < 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "stock_quantity cannot be negative"})
		return
	}
	if part.Status == "" {
		part.Status = domain.StatusActive
	}

	if err := h.repo.Create(r.Context(), &part); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create part")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Part created successfully",
		Data:    part,
	})
}

// GetPart handles GET /api/parts/{id}
func (h *PartHandler) GetPart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	part, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Part not found"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: part})
}

// ListParts handles GET /api/parts
func (h *PartHandler) ListParts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 15
	}

	parts, err := h.repo.FindAll(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list parts")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list parts"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: parts})
}

// ListLowStock handles GET /api/parts/low-stock
func (h *PartHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	parts, err := h.repo.FindLowStock(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list low stock parts")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list low stock parts"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: parts})
}

// UpdatePart handles PATCH /api/parts/{id}
func (h *PartHandler) UpdatePart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	part, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Part not found"})
		return
	}

	var req struct {
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		Category      *string  `json:"category"`
		Brand         *string  `json:"brand"`
		CostPrice     *float64 `json:"cost_price"`
		SellingPrice  *float64 `json:"selling_price"`
		StockQuantity *int     `json:"stock_quantity"`
		MinStockLevel *int     `json:"min_stock_level"`
		Supplier      *string  `json:"supplier"`
		Location      *string  `json:"location"`
		Status        *string  `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "stock_quantity cannot be negative"})
		return
	}

	if req.Name != nil {
		part.Name = *req.Name
	}
	if req.Description != nil {
		part.Description = *req.Description
	}
	if req.Category != nil {
		part.Category = *req.Category
	}
	if req.Brand != nil {
		part.Brand = *req.Brand
	}
	if req.CostPrice != nil {
		part.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		part.SellingPrice = *req.SellingPrice
	}
	if req.StockQuantity != nil {
		part.StockQuantity = *req.StockQuantity
	}
	if req.MinStockLevel != nil {
		part.MinStockLevel = *req.MinStockLevel
	}
	if req.Supplier != nil {
		part.Supplier = *req.Supplier
	}
	if req.Location != nil {
		part.Location = *req.Location
	}
	if req.Status != nil {
		part.Status = *req.Status
	}

	if err := h.repo.Update(r.Context(), part); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update part")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Part updated successfully",
		Data:    part,
	})
}

// DeletePart handles DELETE /api/parts/{id}
func (h *PartHandler) DeletePart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Part deleted successfully"})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid part ID"})
		return 0, false
	}
	return uint(id), true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
