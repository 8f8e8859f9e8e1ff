package order

import (
	"net/http"

	"github.com/gorilla/mux"

	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
	"restaurant-storefront/internal/services/auth"
	"restaurant-storefront/internal/web"
)

// Handler exposes the order HTTP endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Guard wraps a route with an authorization check from the auth middleware.
type Guard func(http.HandlerFunc) http.HandlerFunc

// RegisterRoutes registers the customer and admin order routes. Checkout runs
// behind the session guard so guests can order; admin routes behind the
// admin guard.
func (h *Handler) RegisterRoutes(r *mux.Router, ensure, admin Guard) {
	r.HandleFunc("/orders", ensure(h.Checkout)).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.ListUserOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/{number}", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{number}/history", h.GetOrderHistory).Methods(http.MethodGet)

	r.HandleFunc("/admin/orders", admin(h.ListAllOrders)).Methods(http.MethodGet)
	r.HandleFunc("/admin/orders/{number}/status", admin(h.UpdateStatus)).Methods(http.MethodPut)
}

// Checkout handles POST /orders
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())

	var req models.CheckoutRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid JSON format", requestID)
		return
	}

	resp, err := h.service.Checkout(r.Context(), session, &req)
	if err != nil {
		h.logger.Debug("checkout_rejected", "Checkout failed", requestID, map[string]interface{}{
			"owner": session.CartOwnerKey(),
		})
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusCreated, resp)
}

// ListUserOrders handles GET /orders
func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())

	orders, err := h.service.ListUserOrders(r.Context(), session)
	if err != nil {
		h.logger.Error("order_list_failed", "Failed to list orders", requestID, err, nil)
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /orders/{number}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())
	number := mux.Vars(r)["number"]

	order, err := h.service.GetOrder(r.Context(), session, number)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, order)
}

// GetOrderHistory handles GET /orders/{number}/history
func (h *Handler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())
	number := mux.Vars(r)["number"]

	history, err := h.service.GetOrderHistory(r.Context(), session, number)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"order_number": number,
		"history":      history,
	})
}

// ListAllOrders handles GET /admin/orders
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())

	orders, err := h.service.ListAllOrders(r.Context(), session)
	if err != nil {
		h.logger.Error("order_list_failed", "Failed to list all orders", requestID, err, nil)
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /admin/orders/{number}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())
	number := mux.Vars(r)["number"]

	var req updateStatusRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid JSON format", requestID)
		return
	}

	newStatus, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), session, number, newStatus)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, order)
}
