package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/garage-management/internal/customer/domain"
	"github.com/tair/garage-management/pkg/logger"
)

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	repo domain.CustomerRepository
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(repo domain.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers customer routes on the router
func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/customers", h.CreateCustomer).Methods("POST")
	router.HandleFunc("/api/customers", h.ListCustomers).Methods("GET")
	router.HandleFunc("/api/customers/{id:[0-9]+}", h.GetCustomer).Methods("GET")
	router.HandleFunc("/api/customers/{id:[0-9]+}", h.UpdateCustomer).Methods("PATCH", "PUT")
	router.HandleFunc("/api/customers/{id:[0-9]+}", h.DeleteCustomer).Methods("DELETE")
}

// CreateCustomer handles POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if customer.Name == "" || customer.Email == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "name and email are required"})
		return
	}

	if err := h.repo.Create(r.Context(), &customer); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create customer")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Customer created successfully",
		Data:    customer,
	})
}

// GetCustomer handles GET /api/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Customer not found"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: customer})
}

// ListCustomers handles GET /api/customers with optional search term
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 15
	}

	var customers []domain.Customer
	var err error
	if term := r.URL.Query().Get("search"); term != "" {
		customers, err = h.repo.Search(r.Context(), term, limit, offset)
	} else {
		customers, err = h.repo.FindAll(r.Context(), limit, offset)
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list customers")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list customers"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: customers})
}

// UpdateCustomer handles PATCH /api/customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Customer not found"})
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		City    *string `json:"city"`
		Notes   *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := h.repo.Update(r.Context(), customer); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update customer")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Customer updated successfully",
		Data:    customer,
	})
}

// DeleteCustomer handles DELETE /api/customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Customer deleted successfully"})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid customer ID"})
		return 0, false
	}
	return uint(id), true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
