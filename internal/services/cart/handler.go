package cart

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
	"restaurant-storefront/internal/services/auth"
	"restaurant-storefront/internal/web"
)

// Handler exposes the cart HTTP endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new cart handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// SessionGuard wraps cart routes so anonymous shoppers get a guest session.
type SessionGuard func(http.HandlerFunc) http.HandlerFunc

// RegisterRoutes registers the cart routes. Every route runs behind the
// session guard so the caller always owns a cart key.
func (h *Handler) RegisterRoutes(r *mux.Router, ensure SessionGuard) {
	r.HandleFunc("/cart", ensure(h.Get)).Methods(http.MethodGet)
	r.HandleFunc("/cart", ensure(h.Clear)).Methods(http.MethodDelete)
	r.HandleFunc("/cart/items", ensure(h.AddItem)).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id:[0-9]+}", ensure(h.SetQuantity)).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{id:[0-9]+}", ensure(h.RemoveItem)).Methods(http.MethodDelete)
}

type addItemRequest struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func cartResponse(cart *models.Cart) map[string]interface{} {
	lines := cart.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return map[string]interface{}{
		"items":       lines,
		"total_cents": cart.TotalCents(),
		"count":       cart.Count(),
	}
}

// Get handles GET /cart
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())

	cart, err := h.service.Get(r.Context(), session)
	if err != nil {
		h.logger.Error("cart_load_failed", "Failed to load cart", requestID, err, nil)
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, cartResponse(cart))
}

// AddItem handles POST /cart/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())

	var req addItemRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid JSON format", requestID)
		return
	}

	cart, err := h.service.AddItem(r.Context(), session, req.MenuItemID, req.Quantity)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Debug("cart_item_added", "Item added to cart", requestID, map[string]interface{}{
		"menu_item_id": req.MenuItemID,
		"quantity":     req.Quantity,
	})
	web.WriteJSON(w, http.StatusOK, cartResponse(cart))
}

// SetQuantity handles PUT /cart/items/{id}
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())
	menuItemID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var req setQuantityRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid JSON format", requestID)
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), session, menuItemID, req.Quantity)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, cartResponse(cart))
}

// RemoveItem handles DELETE /cart/items/{id}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())
	menuItemID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	cart, err := h.service.RemoveItem(r.Context(), session, menuItemID)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, cartResponse(cart))
}

// Clear handles DELETE /cart
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	session := auth.SessionFromContext(r.Context())

	if err := h.service.Clear(r.Context(), session); err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, cartResponse(&models.Cart{}))
}
