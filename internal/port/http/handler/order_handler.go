package handler

import (
	"encoding/json"
	"net/http"

	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/port/http/middleware"
	"github.com/amJayem/used-books-resale-server/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService service.OrderService
	log          logger.Logger
}

func NewOrderHandler(orderService service.OrderService, log logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

type createOrderRequest struct {
	ListingID string `json:"listingId"`
}

// Create handles POST /buyer-orders. Buyer identity comes from the
// credential, not the body.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("Failed to decode create order request: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ListingID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "listingId is required"})
		return
	}

	order, err := h.orderService.Create(r.Context(), claims.Email, claims.Role, req.ListingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// ListByBuyer handles GET /buyer-orders. Scoped to the caller's own
// orders; the email query parameter of the original API is ignored in
// favor of the credential.
func (h *OrderHandler) ListByBuyer(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	orders, err := h.orderService.ListByBuyer(r.Context(), claims.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /buyer-orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	order, err := h.orderService.GetByID(r.Context(), chi.URLParam(r, "id"), claims.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// MarkPaid handles PATCH /buyer-orders/success/{id}. Only the buyer who
// placed the order can confirm its payment.
func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	order, err := h.orderService.MarkPaid(r.Context(), chi.URLParam(r, "id"), claims.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
