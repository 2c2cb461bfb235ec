package handler

import (
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// BillingHandler serves checkout initiation and the Stripe webhook.
type BillingHandler struct {
	stripeSvc *service.StripeService
	logger    zerolog.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(stripeSvc *service.StripeService, logger zerolog.Logger) *BillingHandler {
	return &BillingHandler{stripeSvc: stripeSvc, logger: logger}
}

// RegisterRoutes registers the billing endpoints. The webhook route is
// deliberately outside the auth middleware: Stripe authenticates with its
// signature header, not a bearer token.
func (h *BillingHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/billing/checkout", authMw(http.HandlerFunc(h.checkout)))
	mux.Handle("/stripe/webhook", http.HandlerFunc(h.stripeSvc.HandleWebhook))
}

// checkout godoc
// @Summary Initiate a Stripe Checkout session for the premium upgrade
// @Description Creates a subscription-mode Stripe Checkout session and returns its hosted URL.
// @Tags billing
// @Produce json
// @Success 200 {object} dto.CheckoutResponseDTO
// @Failure 400 {object} map[string]string "already subscribed"
// @Failure 500 {object} map[string]string "billing not configured or provider failure"
// @Router /billing/checkout [post]
func (h *BillingHandler) checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	email, _ := r.Context().Value(middleware.EmailContextKey).(string)

	url, err := h.stripeSvc.CreateCheckoutSession(r.Context(), userID, email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadySubscribed):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrBillingNotConfigured):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create checkout session")
			writeError(w, http.StatusInternalServerError, "failed to create checkout session")
		}
		return
	}
	writeJSON(w, http.StatusOK, dto.CheckoutResponseDTO{CheckoutURL: url})
}
