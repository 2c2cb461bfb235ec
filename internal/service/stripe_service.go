package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"app/internal/config"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	customerpkg "github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	// ErrBillingNotConfigured is returned when Stripe credentials or the
	// premium price are absent from the environment.
	ErrBillingNotConfigured = errors.New("billing is not configured")
	// ErrAlreadySubscribed is returned when a premium user starts a checkout.
	ErrAlreadySubscribed = errors.New("already subscribed to the premium plan")

	// errInvalidEventPayload marks webhook events whose payload is missing
	// required references. Mapped to a 400 so Stripe does not retry them.
	errInvalidEventPayload = errors.New("invalid event payload")
)

// BillingAPI wraps the outbound Stripe calls the service makes, so tests can
// substitute a fake without talking to Stripe.
type BillingAPI interface {
	NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error)
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeAPI struct{}

func (stripeAPI) NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error) {
	return customerpkg.New(params)
}

func (stripeAPI) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return checkoutsession.New(params)
}

// NewStripeAPI returns the BillingAPI backed by the real Stripe client.
func NewStripeAPI() BillingAPI {
	return stripeAPI{}
}

type webhookHandler func(ctx context.Context, event stripe.Event) error

// StripeService manages Stripe integration: checkout initiation and
// webhook-driven plan synchronization.
type StripeService struct {
	cfg         *config.Config
	api         BillingAPI
	profileSvc  ProfileService
	profileRepo repository.ProfileRepository
	emailSvc    EmailService
	logger      zerolog.Logger

	// transitions maps each handled event kind to its plan transition.
	// Events outside the table are acknowledged and ignored.
	transitions map[stripe.EventType]webhookHandler
}

// NewStripeService initializes the Stripe key and returns the service with a
// scoped logger.
func NewStripeService(cfg *config.Config, api BillingAPI, profileSvc ProfileService, profileRepo repository.ProfileRepository, emailSvc EmailService, logger zerolog.Logger) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	s := &StripeService{
		cfg:         cfg,
		api:         api,
		profileSvc:  profileSvc,
		profileRepo: profileRepo,
		emailSvc:    emailSvc,
		logger:      logger.With().Str("service", "StripeService").Logger(),
	}
	s.transitions = map[stripe.EventType]webhookHandler{
		"checkout.session.completed":    s.onCheckoutCompleted,
		"customer.subscription.deleted": s.onSubscriptionDeleted,
	}
	return s
}

// CreateCheckoutSession ensures a Stripe customer exists for the user and
// starts a subscription checkout against the premium price, returning the
// hosted redirect URL. At most one customer is created per profile: the
// customer id is persisted before the session is created and reused after.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	if !s.cfg.BillingConfigured() {
		return "", ErrBillingNotConfigured
	}

	profile, err := s.profileSvc.EnsureProfile(ctx, userID, email)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to ensure profile for checkout session")
		return "", err
	}
	if profile.Plan == model.PlanPremium {
		return "", ErrAlreadySubscribed
	}

	customerID, err := s.getOrCreateCustomer(ctx, profile)
	if err != nil {
		return "", err
	}

	sessParams := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{{Price: stripe.String(s.cfg.StripePremiumPrice), Quantity: stripe.Int64(1)}},
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:         stripe.String(s.cfg.FrontendURL + "?checkout=success"),
		CancelURL:          stripe.String(s.cfg.FrontendURL + "?checkout=cancel"),
		Metadata:           map[string]string{"user_id": userID},
	}
	sess, err := s.api.NewCheckoutSession(sessParams)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create Stripe checkout session")
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// getOrCreateCustomer reuses the persisted Stripe customer id or creates a
// new customer tagged with the user id and persists it onto the profile.
func (s *StripeService) getOrCreateCustomer(ctx context.Context, profile *model.Profile) (string, error) {
	if profile.StripeCustomerID != nil && *profile.StripeCustomerID != "" {
		return *profile.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email:    stripe.String(profile.Email),
		Metadata: map[string]string{"user_id": profile.UserID},
	}
	cust, err := s.api.NewCustomer(params)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", profile.UserID).Msg("Failed to create Stripe customer")
		return "", fmt.Errorf("create stripe customer: %w", err)
	}
	if err := s.profileRepo.UpdateStripeCustomerID(ctx, profile.UserID, cust.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", profile.UserID).Msg("Failed to store stripe customer id on profile")
		return "", fmt.Errorf("store stripe customer id: %w", err)
	}
	return cust.ID, nil
}

// HandleWebhook processes Stripe webhook events. The signature is verified
// before any branch on event type; an event that fails verification causes
// no mutation.
func (s *StripeService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeWebhookError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.cfg.StripeWebhookSecret == "" {
		s.logger.Error().Msg("Stripe webhook received but no signing secret is configured")
		writeWebhookError(w, http.StatusBadRequest, "webhook not configured")
		return
	}
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		writeWebhookError(w, http.StatusBadRequest, "failed to read payload")
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		writeWebhookError(w, http.StatusBadRequest, "signature verification failed")
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")

	if handle, ok := s.transitions[event.Type]; ok {
		if err := handle(r.Context(), event); err != nil {
			s.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Failed to apply Stripe webhook event")
			if errors.Is(err, errInvalidEventPayload) {
				writeWebhookError(w, http.StatusBadRequest, err.Error())
			} else {
				writeWebhookError(w, http.StatusInternalServerError, "failed to process event")
			}
			return
		}
	} else {
		s.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"received": true})
}

// writeWebhookError renders the standard `{"error": message}` body. Kept
// local so the service stays independent of the handler package.
func writeWebhookError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// onCheckoutCompleted upgrades the tagged user to the premium plan and
// persists the Stripe customer and subscription references. A replayed event
// whose user id no longer resolves to a profile is a silent no-op.
func (s *StripeService) onCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return fmt.Errorf("%w: bad checkout.session data: %v", errInvalidEventPayload, err)
	}
	userID := cs.Metadata["user_id"]
	if userID == "" {
		return fmt.Errorf("%w: missing user_id in checkout session metadata", errInvalidEventPayload)
	}
	if cs.Customer == nil || cs.Customer.ID == "" {
		return fmt.Errorf("%w: missing customer reference on checkout session", errInvalidEventPayload)
	}
	customerID := cs.Customer.ID
	subscriptionID := ""
	if cs.Subscription != nil {
		subscriptionID = cs.Subscription.ID
	}

	updated, err := s.profileRepo.ActivatePremium(ctx, userID, customerID, subscriptionID)
	if err != nil {
		return err
	}
	if !updated {
		s.logger.Warn().Str("user_id", userID).Msg("No profile for checkout.session.completed, ignoring")
		return nil
	}
	s.logger.Info().Str("user_id", userID).Str("stripe_customer_id", customerID).Str("stripe_subscription_id", subscriptionID).Msg("Profile upgraded to premium")

	s.notifyPlanChanged(ctx, userID, model.PlanPremium)
	return nil
}

// onSubscriptionDeleted downgrades the matching profile back to the free
// plan, clearing the subscription reference but keeping the customer id for
// future checkouts.
func (s *StripeService) onSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("%w: bad subscription data: %v", errInvalidEventPayload, err)
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return fmt.Errorf("%w: missing customer reference on subscription", errInvalidEventPayload)
	}
	customerID := sub.Customer.ID

	// Look up before the update so the notification still has an address.
	profile, err := s.profileRepo.GetProfileByStripeCustomerID(ctx, customerID)
	if err != nil {
		return err
	}

	updated, err := s.profileRepo.DowngradeByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if !updated || profile == nil {
		s.logger.Warn().Str("stripe_customer_id", customerID).Msg("No profile for customer.subscription.deleted, ignoring")
		return nil
	}
	s.logger.Info().Str("user_id", profile.UserID).Str("stripe_customer_id", customerID).Msg("Profile downgraded to free")

	s.notifyPlanChanged(ctx, profile.UserID, model.PlanFree)
	return nil
}

func (s *StripeService) notifyPlanChanged(ctx context.Context, userID string, plan model.Plan) {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil || profile == nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Could not load profile for plan-change notification")
		return
	}
	s.emailSvc.SendPlanChanged(ctx, profile.Email, plan)
}
