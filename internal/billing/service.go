package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/config"
	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateStripeRefs(ctx context.Context, id uuid.UUID, customerID, subscriptionID *string) error
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// CheckoutSession is the hosted checkout redirect handed back to the client.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PortalSession is the hosted billing portal redirect.
type PortalSession struct {
	URL string `json:"url"`
}

// Service drives the Stripe subscription lifecycle for tenants.
type Service interface {
	StartCheckout(ctx context.Context, userID uuid.UUID) (*CheckoutSession, error)
	OpenPortal(ctx context.Context, userID uuid.UUID) (*PortalSession, error)
}

// ServiceParams groups dependencies for the billing service.
type ServiceParams struct {
	Users  userRepository
	Stripe StripeBillingClient
	Audit  auditRecorder
	Cfg    config.StripeConfig
}

type service struct {
	users  userRepository
	stripe StripeBillingClient
	audit  auditRecorder
	cfg    config.StripeConfig
}

// NewService builds a billing service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe client is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	if strings.TrimSpace(params.Cfg.MonthlyPriceID) == "" {
		return nil, fmt.Errorf("stripe monthly price id is required")
	}
	return &service{
		users:  params.Users,
		stripe: params.Stripe,
		audit:  params.Audit,
		cfg:    params.Cfg,
	}, nil
}

// StartCheckout opens a subscription checkout session for the user, creating
// their Stripe customer on first use.
func (s *service) StartCheckout(ctx context.Context, userID uuid.UUID) (*CheckoutSession, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.StripeSubscriptionID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "subscription already active")
	}

	customerID, err := s.ensureCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.MonthlyPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.cfg.CheckoutSuccess),
		CancelURL:         stripe.String(s.cfg.CheckoutCancel),
		ClientReferenceID: stripe.String(user.ID.String()),
	}
	params.AddMetadata("user_id", user.ID.String())
	session, err := s.stripe.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeUserAction,
		ActorID: &user.ID,
		Action:  "billing.checkout_started",
		Detail:  map[string]any{"session_id": session.ID},
	})

	return &CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

// OpenPortal opens the Stripe billing portal for an existing customer.
func (s *service) OpenPortal(ctx context.Context, userID uuid.UUID) (*PortalSession, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.StripeCustomerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no billing account yet")
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(s.cfg.PortalReturnURL),
	}
	session, err := s.stripe.CreatePortalSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create portal session")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeUserAction,
		ActorID: &user.ID,
		Action:  "billing.portal_opened",
	})

	return &PortalSession{URL: session.URL}, nil
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// ensureCustomer returns the user's Stripe customer ID, creating the customer
// on first checkout. The ID is persisted before the checkout session is
// created so a retry reuses the same customer.
func (s *service) ensureCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID != nil {
		return *user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.BusinessName),
	}
	params.AddMetadata("user_id", user.ID.String())
	params.AddMetadata("created_at", time.Now().UTC().Format(time.RFC3339))

	created, err := s.stripe.CreateCustomer(ctx, params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe customer")
	}
	if err := s.users.UpdateStripeRefs(ctx, user.ID, &created.ID, nil); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist stripe customer")
	}
	user.StripeCustomerID = &created.ID
	return created.ID, nil
}
