package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/tair/garage-management/internal/workorder/domain"
	"github.com/tair/garage-management/internal/workorder/usecase/command"
	"github.com/tair/garage-management/internal/workorder/usecase/query"
	"github.com/tair/garage-management/pkg/cache"
	"github.com/tair/garage-management/pkg/logger"
)

const cachePrefix = "work_orders"

// WorkOrderHandler handles HTTP requests for work orders
type WorkOrderHandler struct {
	createHandler    *command.CreateWorkOrderHandler
	updateHandler    *command.UpdateWorkOrderHandler
	deleteHandler    *command.DeleteWorkOrderHandler
	addPartsHandler  *command.AddPartsHandler
	assignHandler    *command.AssignMechanicsHandler
	recalcHandler    *command.RecalculateCostHandler
	completeHandler  *command.CompleteWorkOrderHandler
	cancelHandler    *command.CancelWorkOrderHandler
	statusHandler    *command.UpdateStatusHandler
	getHandler       *query.GetWorkOrderHandler
	listHandler      *query.ListWorkOrdersHandler
	statsHandler     *query.GetStatisticsHandler
	redisClient      *redis.Client
}

// NewWorkOrderHandler creates a new work order handler. redisClient may
// be nil, which disables response caching.
func NewWorkOrderHandler(store domain.Store, publisher domain.Publisher, redisClient *redis.Client) *WorkOrderHandler {
	return &WorkOrderHandler{
		createHandler:   command.NewCreateWorkOrderHandler(store),
		updateHandler:   command.NewUpdateWorkOrderHandler(store, publisher),
		deleteHandler:   command.NewDeleteWorkOrderHandler(store),
		addPartsHandler: command.NewAddPartsHandler(store),
		assignHandler:   command.NewAssignMechanicsHandler(store),
		recalcHandler:   command.NewRecalculateCostHandler(store),
		completeHandler: command.NewCompleteWorkOrderHandler(store),
		cancelHandler:   command.NewCancelWorkOrderHandler(store),
		statusHandler:   command.NewUpdateStatusHandler(store, publisher),
		getHandler:      query.NewGetWorkOrderHandler(store),
		listHandler:     query.NewListWorkOrdersHandler(store),
		statsHandler:    query.NewGetStatisticsHandler(store),
		redisClient:     redisClient,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type partLineRequest struct {
	PartID    uint    `json:"part_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type laborLineRequest struct {
	MechanicID      uint    `json:"mechanic_id"`
	HoursWorked     float64 `json:"hours_worked"`
	HourlyRate      float64 `json:"hourly_rate"`
	WorkDescription string  `json:"work_description"`
}

func toPartLines(reqs []partLineRequest) []command.PartLine {
	lines := make([]command.PartLine, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, command.PartLine{
			PartID:    r.PartID,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
		})
	}
	return lines
}

func toLaborLines(reqs []laborLineRequest) []command.LaborLine {
	lines := make([]command.LaborLine, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, command.LaborLine{
			MechanicID:      r.MechanicID,
			HoursWorked:     r.HoursWorked,
			HourlyRate:      r.HourlyRate,
			WorkDescription: r.WorkDescription,
		})
	}
	return lines
}

// RegisterRoutes registers work order routes on the router
func (h *WorkOrderHandler) RegisterRoutes(router *mux.Router) {
	cached := cache.Middleware(h.redisClient, cache.Config{Prefix: cachePrefix, TTL: 5 * time.Minute})

	router.HandleFunc("/api/work-orders", h.CreateWorkOrder).Methods("POST")
	router.Handle("/api/work-orders", cached(http.HandlerFunc(h.ListWorkOrders))).Methods("GET")
	router.Handle("/api/work-orders-statistics", cached(http.HandlerFunc(h.GetStatistics))).Methods("GET")
	router.HandleFunc("/api/work-orders/{id:[0-9]+}", h.GetWorkOrder).Methods("GET")
	router.HandleFunc("/api/work-orders/{id:[0-9]+}", h.UpdateWorkOrder).Methods("PATCH", "PUT")
	router.HandleFunc("/api/work-orders/{id:[0-9]+}", h.DeleteWorkOrder).Methods("DELETE")
	router.HandleFunc("/api/work-orders/{id:[0-9]+}/status", h.UpdateStatus).Methods("POST")
	router.HandleFunc("/api/work-orders/{id:[0-9]+}/parts", h.AddParts).Methods("POST")
	router.HandleFunc("/api/work-orders/{id:[0-9]+}/mechanics", h.AssignMechanics).Methods("POST")
	router.HandleFunc("/api/work-orders/{id:[0-9]+}/recalculate", h.RecalculateCost).Methods("POST")
	router.HandleFunc("/api/work-orders/{id:[0-9]+}/complete", h.CompleteWorkOrder).Methods("POST")
	router.HandleFunc("/api/work-orders/{id:[0-9]+}/cancel", h.CancelWorkOrder).Methods("POST")
}

// RegisterHealthCheck registers the health check endpoint
func (h *WorkOrderHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "database unreachable",
			})
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Message: "healthy"})
	}).Methods("GET")
}

// CreateWorkOrder handles POST /api/work-orders
func (h *WorkOrderHandler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderNumber         string             `json:"order_number"`
		CustomerID          uint               `json:"customer_id"`
		VehicleID           uint               `json:"vehicle_id"`
		AssignedMechanicID  *uint              `json:"assigned_mechanic_id"`
		ProblemDescription  string             `json:"problem_description"`
		Diagnosis           string             `json:"diagnosis"`
		Priority            string             `json:"priority"`
		StartedAt           *time.Time         `json:"started_at"`
		EstimatedCompletion *time.Time         `json:"estimated_completion"`
		EstimatedHours      *int               `json:"estimated_hours"`
		CustomerNotes       string             `json:"customer_notes"`
		InternalNotes       string             `json:"internal_notes"`
		Parts               []partLineRequest  `json:"parts"`
		Mechanics           []laborLineRequest `json:"mechanics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	order, err := h.createHandler.Handle(r.Context(), command.CreateWorkOrderCommand{
		OrderNumber:         req.OrderNumber,
		CustomerID:          req.CustomerID,
		VehicleID:           req.VehicleID,
		AssignedMechanicID:  req.AssignedMechanicID,
		ProblemDescription:  req.ProblemDescription,
		Diagnosis:           req.Diagnosis,
		Priority:            req.Priority,
		StartedAt:           req.StartedAt,
		EstimatedCompletion: req.EstimatedCompletion,
		EstimatedHours:      req.EstimatedHours,
		CustomerNotes:       req.CustomerNotes,
		InternalNotes:       req.InternalNotes,
		Parts:               toPartLines(req.Parts),
		Mechanics:           toLaborLines(req.Mechanics),
	})
	if err != nil {
		h.respondError(w, r, err, "Failed to create work order")
		return
	}

	h.invalidateCache(r)
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Work order created successfully",
		Data:    order,
	})
}

// GetWorkOrder handles GET /api/work-orders/{id}
func (h *WorkOrderHandler) GetWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.getHandler.Handle(r.Context(), query.GetWorkOrderQuery{OrderID: id})
	if err != nil {
		h.respondError(w, r, err, "Failed to get work order")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: order})
}

// ListWorkOrders handles GET /api/work-orders
func (h *WorkOrderHandler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	mechanicID, _ := strconv.ParseUint(r.URL.Query().Get("mechanic_id"), 10, 32)
	customerID, _ := strconv.ParseUint(r.URL.Query().Get("customer_id"), 10, 32)

	orders, err := h.listHandler.Handle(r.Context(), query.ListWorkOrdersQuery{
		Filter: domain.ListFilter{
			Status:     r.URL.Query().Get("status"),
			Priority:   r.URL.Query().Get("priority"),
			MechanicID: uint(mechanicID),
			CustomerID: uint(customerID),
			Limit:      limit,
			Offset:     offset,
		},
	})
	if err != nil {
		h.respondError(w, r, err, "Failed to list work orders")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
}

// GetStatistics handles GET /api/work-orders-statistics
func (h *WorkOrderHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatisticsQuery{})
	if err != nil {
		h.respondError(w, r, err, "Failed to get statistics")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: stats})
}

// UpdateWorkOrder handles PATCH /api/work-orders/{id}
func (h *WorkOrderHandler) UpdateWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		AssignedMechanicID  *uint               `json:"assigned_mechanic_id"`
		ProblemDescription  *string             `json:"problem_description"`
		Diagnosis           *string             `json:"diagnosis"`
		WorkPerformed       *string             `json:"work_performed"`
		Priority            *string             `json:"priority"`
		Status              *string             `json:"status"`
		StartedAt           *time.Time          `json:"started_at"`
		CompletedAt         *time.Time          `json:"completed_at"`
		EstimatedCompletion *time.Time          `json:"estimated_completion"`
		EstimatedHours      *int                `json:"estimated_hours"`
		CustomerNotes       *string             `json:"customer_notes"`
		InternalNotes       *string             `json:"internal_notes"`
		Parts               *[]partLineRequest  `json:"parts"`
		Mechanics           *[]laborLineRequest `json:"mechanics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	cmd := command.UpdateWorkOrderCommand{
		OrderID:             id,
		AssignedMechanicID:  req.AssignedMechanicID,
		ProblemDescription:  req.ProblemDescription,
		Diagnosis:           req.Diagnosis,
		WorkPerformed:       req.WorkPerformed,
		Priority:            req.Priority,
		Status:              req.Status,
		StartedAt:           req.StartedAt,
		CompletedAt:         req.CompletedAt,
		EstimatedCompletion: req.EstimatedCompletion,
		EstimatedHours:      req.EstimatedHours,
		CustomerNotes:       req.CustomerNotes,
		InternalNotes:       req.InternalNotes,
	}
	if req.Parts != nil {
		cmd.Parts = toPartLines(*req.Parts)
		if cmd.Parts == nil {
			cmd.Parts = []command.PartLine{}
		}
	}
	if req.Mechanics != nil {
		cmd.Mechanics = toLaborLines(*req.Mechanics)
		if cmd.Mechanics == nil {
			cmd.Mechanics = []command.LaborLine{}
		}
	}

	order, err := h.updateHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err, "Failed to update work order")
		return
	}

	h.invalidateCache(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Work order updated successfully",
		Data:    order,
	})
}

// DeleteWorkOrder handles DELETE /api/work-orders/{id}
func (h *WorkOrderHandler) DeleteWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deleteHandler.Handle(r.Context(), command.DeleteWorkOrderCommand{OrderID: id}); err != nil {
		h.respondError(w, r, err, "Failed to delete work order")
		return
	}
	h.invalidateCache(r)
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Work order deleted successfully"})
}

// UpdateStatus handles POST /api/work-orders/{id}/status
func (h *WorkOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	order, err := h.statusHandler.Handle(r.Context(), command.UpdateStatusCommand{OrderID: id, Status: req.Status})
	if err != nil {
		h.respondError(w, r, err, "Failed to update work order status")
		return
	}

	h.invalidateCache(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Work order status updated successfully",
		Data:    order,
	})
}

// AddParts handles POST /api/work-orders/{id}/parts
func (h *WorkOrderHandler) AddParts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Parts []partLineRequest `json:"parts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	order, err := h.addPartsHandler.Handle(r.Context(), command.AddPartsCommand{
		OrderID: id,
		Parts:   toPartLines(req.Parts),
	})
	if err != nil {
		h.respondError(w, r, err, "Failed to add parts")
		return
	}

	h.invalidateCache(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Parts added successfully",
		Data:    order,
	})
}

// AssignMechanics handles POST /api/work-orders/{id}/mechanics
func (h *WorkOrderHandler) AssignMechanics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Mechanics []laborLineRequest `json:"mechanics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	order, err := h.assignHandler.Handle(r.Context(), command.AssignMechanicsCommand{
		OrderID:   id,
		Mechanics: toLaborLines(req.Mechanics),
	})
	if err != nil {
		h.respondError(w, r, err, "Failed to assign mechanics")
		return
	}

	h.invalidateCache(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Mechanics assigned successfully",
		Data:    order,
	})
}

// RecalculateCost handles POST /api/work-orders/{id}/recalculate
func (h *WorkOrderHandler) RecalculateCost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.recalcHandler.Handle(r.Context(), command.RecalculateCostCommand{OrderID: id})
	if err != nil {
		h.respondError(w, r, err, "Failed to recalculate costs")
		return
	}
	h.invalidateCache(r)
	respondJSON(w, http.StatusOK, Response{Success: true, Data: order})
}

// CompleteWorkOrder handles POST /api/work-orders/{id}/complete
func (h *WorkOrderHandler) CompleteWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.completeHandler.Handle(r.Context(), command.CompleteWorkOrderCommand{OrderID: id})
	if err != nil {
		h.respondError(w, r, err, "Failed to complete work order")
		return
	}
	h.invalidateCache(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Work order completed successfully",
		Data:    order,
	})
}

// CancelWorkOrder handles POST /api/work-orders/{id}/cancel
func (h *WorkOrderHandler) CancelWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional for cancellation
	_ = json.NewDecoder(r.Body).Decode(&req)

	order, err := h.cancelHandler.Handle(r.Context(), command.CancelWorkOrderCommand{OrderID: id, Reason: req.Reason})
	if err != nil {
		h.respondError(w, r, err, "Failed to cancel work order")
		return
	}

	h.invalidateCache(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Work order cancelled successfully",
		Data:    order,
	})
}

func (h *WorkOrderHandler) invalidateCache(r *http.Request) {
	if err := cache.Invalidate(r.Context(), h.redisClient, cachePrefix); err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Failed to invalidate work order cache")
	}
}

func (h *WorkOrderHandler) respondError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).Err(err).Msg(msg)
	}
	respondJSON(w, status, Response{Success: false, Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrWorkOrderNotFound),
		errors.Is(err, domain.ErrPartNotFound),
		errors.Is(err, domain.ErrMechanicNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrDuplicateOrderNumber):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid work order ID"})
		return 0, false
	}
	return uint(id), true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
