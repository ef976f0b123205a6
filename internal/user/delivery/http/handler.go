package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tair/garage-management/internal/user/domain"
	"github.com/tair/garage-management/pkg/auth"
	"github.com/tair/garage-management/pkg/logger"
)

type contextKey string

// ClaimsContextKey carries the authenticated user's claims in the request
// context
const ClaimsContextKey contextKey = "auth_claims"

// UserHandler handles authentication and user account requests
type UserHandler struct {
	repo domain.UserRepository
}

// NewUserHandler creates a new user handler
func NewUserHandler(repo domain.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers auth routes on the router
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/register", h.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	router.Handle("/api/auth/me", JWTMiddleware(http.HandlerFunc(h.Me))).Methods("GET")
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "username, email and password are required"})
		return
	}
	if len(req.Password) < 8 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "password must be at least 8 characters"})
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleReceptionist
	}
	if !domain.ValidRole(req.Role) {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "invalid role: " + req.Role})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to hash password")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to register user"})
		return
	}

	user := domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Role:     req.Role,
	}
	if err := h.repo.Create(r.Context(), &user); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create user")
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: "Username or email already taken"})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "User registered successfully",
		Data:    user,
	})
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	user, err := h.repo.FindByUsername(r.Context(), req.Username)
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to generate token")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to login"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token": token,
			"user":  user,
		},
	})
}

// Me handles GET /api/auth/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(ClaimsContextKey).(*auth.Claims)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Unauthorized"})
		return
	}
	user, err := h.repo.FindByID(r.Context(), claims.UserID)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "User not found"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: user})
}

// JWTMiddleware validates the Authorization bearer token and stores its
// claims in the request context
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing or malformed authorization header"})
			return
		}
		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Invalid or expired token"})
			return
		}
		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
