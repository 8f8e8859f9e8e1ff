package catalog

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
	"restaurant-storefront/internal/web"
)

// Handler exposes the catalog HTTP endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// AdminGuard wraps admin-only routes; provided by the auth middleware.
type AdminGuard func(http.HandlerFunc) http.HandlerFunc

// RegisterRoutes registers the public and admin catalog routes.
func (h *Handler) RegisterRoutes(r *mux.Router, admin AdminGuard) {
	r.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/menu", h.ListMenuItems).Methods(http.MethodGet)
	r.HandleFunc("/menu/{id:[0-9]+}", h.GetMenuItem).Methods(http.MethodGet)

	r.HandleFunc("/admin/menu", admin(h.CreateMenuItem)).Methods(http.MethodPost)
	r.HandleFunc("/admin/menu/{id:[0-9]+}", admin(h.UpdateMenuItem)).Methods(http.MethodPut)
	r.HandleFunc("/admin/menu/{id:[0-9]+}", admin(h.DeleteMenuItem)).Methods(http.MethodDelete)
	r.HandleFunc("/admin/categories", admin(h.CreateCategory)).Methods(http.MethodPost)
}

// ListCategories handles GET /categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list categories", requestID, err, nil)
		web.WriteDomainError(w, err, requestID)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	web.WriteJSON(w, http.StatusOK, categories)
}

// ListMenuItems handles GET /menu?category=&search=&veg=
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	filter := Filter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		VegOnly:  r.URL.Query().Get("veg") == "true",
	}

	items, err := h.service.ListMenuItems(r.Context(), filter)
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list menu items", requestID, err, nil)
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, items)
}

// GetMenuItem handles GET /menu/{id}
func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	item, err := h.service.GetMenuItem(r.Context(), id)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, item)
}

// CreateMenuItem handles POST /admin/menu
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	var req models.UpsertMenuItemRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid JSON format", requestID)
		return
	}

	item, err := h.service.CreateMenuItem(r.Context(), &req)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("menu_item_created", "Menu item created", requestID, map[string]interface{}{
		"menu_item_id": item.ID,
		"name":         item.Name,
	})
	web.WriteJSON(w, http.StatusCreated, item)
}

// UpdateMenuItem handles PUT /admin/menu/{id}
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var req models.UpsertMenuItemRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid JSON format", requestID)
		return
	}

	item, err := h.service.UpdateMenuItem(r.Context(), id, &req)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("menu_item_updated", "Menu item updated", requestID, map[string]interface{}{
		"menu_item_id": item.ID,
	})
	web.WriteJSON(w, http.StatusOK, item)
}

// DeleteMenuItem handles DELETE /admin/menu/{id}
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	if err := h.service.DeleteMenuItem(r.Context(), id); err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("menu_item_deleted", "Menu item deleted", requestID, map[string]interface{}{
		"menu_item_id": id,
	})
	web.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CreateCategory handles POST /admin/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	var req models.CreateCategoryRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid JSON format", requestID)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("category_created", "Category created", requestID, map[string]interface{}{
		"category_id": category.ID,
	})
	web.WriteJSON(w, http.StatusCreated, category)
}
