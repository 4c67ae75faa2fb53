package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/internal/shopify"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

// AuthHandler serves the customer account endpoints. The access token lives
// only in its cookie; handlers shuttle it between the cookie and the service.
type AuthHandler struct {
	service *service.AuthService
	session *session.Manager
	logger  *slog.Logger
}

// NewAuthHandler creates an auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, sess *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, session: sess, logger: logger}
}

// --- Request DTOs ---

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=5"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ResendActivationRequest is the JSON body for POST /auth/resend-activation.
type ResendActivationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type customerPayload struct {
	Customer any `json:"customer"`
}

// --- Handlers ---

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.session.SetToken(w, token)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"authenticated": true},
	})
}

// Register handles POST /api/v1/auth/register. Registration succeeds with
// 201 even when the shop requires email activation; the body then carries the
// check-your-email message and no session is established.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), shopify.CustomerCreateInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	authenticated := result.Token != ""
	if authenticated {
		h.session.SetToken(w, result.Token)
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: map[string]any{
			"authenticated": authenticated,
			"message":       result.Message,
		},
	})
}

// Logout handles POST /api/v1/auth/logout. The cookie is cleared no matter
// what the platform says; signing out locally must always work.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context(), h.session.Token(r))
	h.session.ClearToken(w)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"authenticated": false},
	})
}

// Me handles GET /api/v1/auth/me. Always 200; a null customer is the signed
// out state, and a transport failure degrades to it rather than erroring the
// page.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := h.session.Token(r)

	customer, err := h.service.CurrentCustomer(r.Context(), token)
	if err != nil {
		logger.FromContext(r.Context()).WarnContext(r.Context(), "customer read degraded to signed out",
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customerPayload{Customer: nil}})
		return
	}

	if customer == nil {
		if token != "" {
			// The platform rejected the token; drop it.
			h.session.ClearToken(w)
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customerPayload{Customer: nil}})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customerPayload{Customer: customer}})
}

// ResendActivation handles POST /api/v1/auth/resend-activation.
func (h *AuthHandler) ResendActivation(w http.ResponseWriter, r *http.Request) {
	var req ResendActivationRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	msg := h.service.ResendActivation(r.Context(), req.Email)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"message": msg},
	})
}
