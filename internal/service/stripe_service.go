package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"clipcraft/internal/config"
	"clipcraft/internal/model"
	"clipcraft/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	billingsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	customerpkg "github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeService manages the Stripe integration: checkout, the customer
// portal, and webhook-driven mirroring of subscription state onto users.
type StripeService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewStripeService initializes the Stripe key and returns the service with a
// scoped logger.
func NewStripeService(cfg *config.Config, userRepo repository.UserRepository, logger zerolog.Logger) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{cfg: cfg, userRepo: userRepo, logger: lg}
}

// getUserFromEvent resolves the local user from webhook metadata, falling
// back to a stripe customer ID lookup when the metadata is missing.
func (s *StripeService) getUserFromEvent(ctx context.Context, metadata map[string]string, customerID string) (*model.User, error) {
	if raw, ok := metadata["user_id"]; ok && raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed user_id metadata %q: %w", raw, err)
		}
		u, err := s.userRepo.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	if customerID == "" {
		return nil, errors.New("cannot determine user: missing metadata and customer id")
	}
	s.logger.Warn().Str("stripe_customer_id", customerID).Msg("Missing user_id metadata; looking up user by customer ID")
	u, err := s.userRepo.GetUserByStripeCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user by Stripe customer ID: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("no user found for customer ID: %s", customerID)
	}
	return u, nil
}

// GetOrCreateCustomer ensures a Stripe Customer exists for a user.
func (s *StripeService) GetOrCreateCustomer(ctx context.Context, user *model.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email:    stripe.String(user.Email),
		Name:     stripe.String(user.Username),
		Metadata: map[string]string{"user_id": strconv.Itoa(user.ID)},
	}
	cust, err := customerpkg.New(params)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("Failed to create Stripe customer")
		return "", fmt.Errorf("create stripe customer: %w", err)
	}
	if err := s.userRepo.UpdateStripeCustomerID(ctx, user.ID, cust.ID); err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("Failed to store stripe customer id")
		return "", fmt.Errorf("store stripe customer id: %w", err)
	}
	return cust.ID, nil
}

// CreateCheckoutSession creates a subscription-mode Stripe Checkout session
// and returns its redirect URL.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, userID int) (string, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Failed to fetch user for checkout session")
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return "", fmt.Errorf("user not found: %d", userID)
	}
	customerID, err := s.GetOrCreateCustomer(ctx, user)
	if err != nil {
		return "", err
	}
	sessParams := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{{Price: stripe.String(s.cfg.StripePriceID), Quantity: stripe.Int64(1)}},
		Mode:               stripe.String(stripe.CheckoutSessionModeSubscription),
		SuccessURL:         stripe.String(s.cfg.AppURL + "/subscription/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(s.cfg.AppURL + "/subscription/cancel"),
		Metadata:           map[string]string{"user_id": strconv.Itoa(userID)},
	}
	sess, err := checkoutsession.New(sessParams)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Failed to create Stripe checkout session")
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// CreatePortalSession creates a Stripe Customer Portal session for the
// user's stored customer.
func (s *StripeService) CreatePortalSession(ctx context.Context, userID int) (string, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Failed to fetch user for portal session")
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if user == nil || user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		s.logger.Error().Int("user_id", userID).Msg("No Stripe customer ID found for user when creating portal session")
		return "", fmt.Errorf("no stripe customer for user: %d", userID)
	}
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(s.cfg.AppURL + "/account"),
	}
	sess, err := billingsession.New(params)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Failed to create Stripe billing portal session")
		return "", fmt.Errorf("create billing portal session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies and processes Stripe webhook events, mirroring
// subscription state onto the local user row.
func (s *StripeService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	// Dashboard-created webhook endpoints can pin an older API version than
	// the SDK; the signature check is the part that matters here.
	event, err := webhook.ConstructEventWithOptions(payload, sig, s.cfg.StripeWebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")

	ctx := r.Context()
	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			s.logger.Error().Err(err).Msg("Invalid checkout.session data")
			http.Error(w, "invalid checkout.session data", http.StatusBadRequest)
			return
		}
		if cs.Mode != stripe.CheckoutSessionModeSubscription || cs.Subscription == nil {
			s.logger.Info().Str("session_id", cs.ID).Msg("Checkout session is not a subscription, skipping")
			w.WriteHeader(http.StatusOK)
			return
		}
		customerID := ""
		if cs.Customer != nil {
			customerID = cs.Customer.ID
		}
		user, err := s.getUserFromEvent(ctx, cs.Metadata, customerID)
		if err != nil {
			s.logger.Error().Err(err).Str("session_id", cs.ID).Msg("Failed to determine user from checkout session")
			http.Error(w, "failed to identify user", http.StatusInternalServerError)
			return
		}
		subID := cs.Subscription.ID
		if err := s.userRepo.UpdateSubscription(ctx, user.ID, &subID, model.SubscriptionActive); err != nil {
			s.logger.Error().Err(err).Int("user_id", user.ID).Msg("Failed to activate subscription on checkout.session.completed")
			http.Error(w, "failed to save subscription", http.StatusInternalServerError)
			return
		}

	case "customer.subscription.updated":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			s.logger.Error().Err(err).Msg("Invalid customer.subscription.updated payload")
			http.Error(w, "invalid subscription data", http.StatusBadRequest)
			return
		}
		// Mirror the provider's status string; a subscription scheduled to
		// cancel at period end is already treated as canceled.
		status := string(ss.Status)
		if ss.CancelAtPeriodEnd || ss.Status == stripe.SubscriptionStatusCanceled {
			status = model.SubscriptionCanceled
		}
		customerID := ""
		if ss.Customer != nil {
			customerID = ss.Customer.ID
		}
		user, err := s.getUserFromEvent(ctx, ss.Metadata, customerID)
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", ss.ID).Msg("Failed to determine user from subscription")
			http.Error(w, "failed to identify user", http.StatusInternalServerError)
			return
		}
		subID := ss.ID
		if err := s.userRepo.UpdateSubscription(ctx, user.ID, &subID, status); err != nil {
			s.logger.Error().Err(err).Int("user_id", user.ID).Str("status", status).Msg("Failed to mirror subscription status")
			http.Error(w, "failed to update subscription", http.StatusInternalServerError)
			return
		}

	case "customer.subscription.deleted":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			s.logger.Error().Err(err).Msg("Invalid customer.subscription.deleted payload")
			http.Error(w, "invalid subscription data", http.StatusBadRequest)
			return
		}
		customerID := ""
		if ss.Customer != nil {
			customerID = ss.Customer.ID
		}
		user, err := s.getUserFromEvent(ctx, ss.Metadata, customerID)
		if err != nil {
			s.logger.Error().Err(err).Str("subscription_id", ss.ID).Msg("Failed to determine user from subscription")
			http.Error(w, "failed to identify user", http.StatusInternalServerError)
			return
		}
		if err := s.userRepo.UpdateSubscription(ctx, user.ID, nil, model.SubscriptionInactive); err != nil {
			s.logger.Error().Err(err).Int("user_id", user.ID).Msg("Failed to clear subscription on customer.subscription.deleted")
			http.Error(w, "failed to update subscription", http.StatusInternalServerError)
			return
		}

	default:
		s.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
	}
	w.WriteHeader(http.StatusOK)
}
