package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartHandler serves the cart endpoints. It owns the cart cookie lifecycle:
// the service reports what happened, the handler decides what the cookie does.
type CartHandler struct {
	service *service.CartService
	session *session.Manager
	logger  *slog.Logger
}

// NewCartHandler creates a cart HTTP handler.
func NewCartHandler(svc *service.CartService, sess *session.Manager, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, session: sess, logger: logger}
}

// --- Request DTOs ---

// AddLineRequest is the JSON body for POST /cart/add.
type AddLineRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateLineRequest is the JSON body for POST /cart/update. Quantity is a
// pointer because 0 is a valid value (it removes the line).
type UpdateLineRequest struct {
	LineID   string `json:"line_id" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required,gte=0"`
}

// RemoveLineRequest is the JSON body for POST /cart/remove.
type RemoveLineRequest struct {
	LineID string `json:"line_id" validate:"required"`
}

type cartPayload struct {
	Cart any `json:"cart"`
}

// --- Handlers ---

// Get handles GET /api/v1/cart. A read failure degrades to a null cart so
// the page still renders; the cause is logged.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID := h.session.CartID(r)

	cart, err := h.service.Get(r.Context(), cartID)
	if err != nil {
		logger.FromContext(r.Context()).WarnContext(r.Context(), "cart read degraded to empty",
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartPayload{Cart: nil}})
		return
	}

	if cart == nil {
		if cartID != "" {
			// The platform no longer knows this cart id.
			h.session.ClearCartID(w)
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartPayload{Cart: nil}})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartPayload{Cart: cart}})
}

// AddLine handles POST /api/v1/cart/add.
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cartID := h.session.CartID(r)

	cart, created, err := h.service.AddLine(r.Context(), cartID, req.VariantID, req.Quantity)
	if err != nil {
		// The cookie stays as it was; a failed mutation must not lose the cart.
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if created {
		h.session.SetCartID(w, cart.ID)
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartPayload{Cart: cart}})
}

// UpdateLine handles POST /api/v1/cart/update.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req UpdateLineRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateLine(r.Context(), h.session.CartID(r), req.LineID, *req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartPayload{Cart: cart}})
}

// RemoveLine handles POST /api/v1/cart/remove.
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	var req RemoveLineRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.RemoveLine(r.Context(), h.session.CartID(r), req.LineID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartPayload{Cart: cart}})
}
