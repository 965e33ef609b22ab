package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	UpdateStripeRefs(ctx context.Context, id uuid.UUID, customerID, subscriptionID *string) error
}

type siteStatusSetter interface {
	SetStatusByOwner(ctx context.Context, ownerID uuid.UUID, status enums.SiteStatus) error
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// ServiceParams groups dependencies for the Stripe webhook service.
type ServiceParams struct {
	Users  userRepository
	Sites  siteStatusSetter
	Audit  auditRecorder
	Logger *logger.Logger
}

// Service applies Stripe subscription lifecycle events to tenant accounts.
type Service struct {
	users userRepository
	sites siteStatusSetter
	audit auditRecorder
	logg  *logger.Logger
}

// NewService builds a Stripe webhook service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repo required")
	}
	if params.Sites == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "site service required")
	}
	if params.Audit == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "audit recorder required")
	}
	return &Service{
		users: params.Users,
		sites: params.Sites,
		audit: params.Audit,
		logg:  params.Logger,
	}, nil
}

// HandleEvent dispatches one verified Stripe event. Unknown event types are
// acknowledged without action so Stripe stops retrying them.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout event")
		}
		return s.completeCheckout(ctx, &session)
	case stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode subscription event")
		}
		return s.syncSubscription(ctx, &sub)
	default:
		return nil
	}
}

// completeCheckout activates the tenant's subscription and flips their site
// live once Stripe confirms payment.
func (s *Service) completeCheckout(ctx context.Context, session *stripe.CheckoutSession) error {
	reference := session.Metadata["user_id"]
	if reference == "" {
		reference = session.ClientReferenceID
	}
	userID, err := uuid.Parse(reference)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout session missing user reference")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found for checkout")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	var customerID, subscriptionID *string
	if session.Customer != nil && session.Customer.ID != "" {
		customerID = &session.Customer.ID
	}
	if session.Subscription != nil && session.Subscription.ID != "" {
		subscriptionID = &session.Subscription.ID
	}
	if err := s.users.UpdateStripeRefs(ctx, user.ID, customerID, subscriptionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist stripe refs")
	}

	if err := s.sites.SetStatusByOwner(ctx, user.ID, enums.SiteStatusLive); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeSystem,
		ActorID: &user.ID,
		Action:  "billing.subscription_activated",
		Detail:  map[string]any{"checkout_session": session.ID},
	})
	return nil
}

// syncSubscription maps the subscription status onto the owner's site. Paying
// and trialing tenants stay live; everything else falls back to draft.
func (s *Service) syncSubscription(ctx context.Context, sub *stripe.Subscription) error {
	if sub.Customer == nil || sub.Customer.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscription missing customer")
	}

	user, err := s.users.FindByStripeCustomerID(ctx, sub.Customer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Customer not provisioned through us; nothing to sync.
			if s.logg != nil {
				s.logg.Warn(ctx, "stripe subscription event for unknown customer "+sub.Customer.ID)
			}
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer")
	}

	status := enums.SiteStatusDraft
	if isActiveStatus(sub.Status) {
		status = enums.SiteStatusLive
	}
	if err := s.sites.SetStatusByOwner(ctx, user.ID, status); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeSystem,
		ActorID: &user.ID,
		Action:  "billing.subscription_synced",
		Detail: map[string]any{
			"stripe_status": string(sub.Status),
			"site_status":   string(status),
		},
	})
	return nil
}

func isActiveStatus(status stripe.SubscriptionStatus) bool {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return true
	default:
		return false
	}
}
