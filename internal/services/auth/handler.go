package auth

import (
	"net/http"

	"github.com/gorilla/mux"

	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
	"restaurant-storefront/internal/web"
)

// Handler exposes the auth HTTP endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes registers the auth routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func sessionResponse(session *models.Session) map[string]interface{} {
	return map[string]interface{}{
		"user": map[string]interface{}{
			"id":    session.User.ID,
			"name":  session.User.Name,
			"email": session.User.Email,
			"role":  session.User.Role,
		},
	}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	var req registerRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid JSON format", requestID)
		return
	}

	session, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Debug("registration_rejected", "Registration failed", requestID, map[string]interface{}{
			"email": req.Email,
		})
		web.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("user_registered", "User registered", requestID, map[string]interface{}{
		"user_id": session.User.ID,
		"role":    session.User.Role,
	})

	SetSessionCookie(w, session)
	web.WriteJSON(w, http.StatusCreated, sessionResponse(session))
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	var req loginRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid JSON format", requestID)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("login_rejected", "Login failed", requestID, map[string]interface{}{
			"email": req.Email,
		})
		web.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("user_logged_in", "User logged in", requestID, map[string]interface{}{
		"user_id": session.User.ID,
	})

	SetSessionCookie(w, session)
	web.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := SessionFromContext(r.Context())

	if err := h.service.Logout(r.Context(), session.Token); err != nil {
		h.logger.Error("logout_failed", "Failed to delete session", requestID, err, nil)
	}

	ClearSessionCookie(w)
	web.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if !session.IsAuthenticated() {
		web.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}
	web.WriteJSON(w, http.StatusOK, sessionResponse(session))
}
