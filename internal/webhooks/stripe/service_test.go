package stripewebhook

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type stubWebhookUserRepo struct {
	byID       map[uuid.UUID]*models.User
	byCustomer map[string]*models.User

	updatedID      *uuid.UUID
	customerID     *string
	subscriptionID *string
}

func newStubWebhookUserRepo() *stubWebhookUserRepo {
	return &stubWebhookUserRepo{
		byID:       map[uuid.UUID]*models.User{},
		byCustomer: map[string]*models.User{},
	}
}

func (s *stubWebhookUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubWebhookUserRepo) FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	if user, ok := s.byCustomer[customerID]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubWebhookUserRepo) UpdateStripeRefs(ctx context.Context, id uuid.UUID, customerID, subscriptionID *string) error {
	s.updatedID = &id
	s.customerID = customerID
	s.subscriptionID = subscriptionID
	return nil
}

type stubSiteStatus struct {
	statuses map[uuid.UUID]enums.SiteStatus
}

func (s *stubSiteStatus) SetStatusByOwner(ctx context.Context, ownerID uuid.UUID, status enums.SiteStatus) error {
	if s.statuses == nil {
		s.statuses = map[uuid.UUID]enums.SiteStatus{}
	}
	s.statuses[ownerID] = status
	return nil
}

type captureAudit struct {
	entries []audit.Entry
}

func (c *captureAudit) Record(ctx context.Context, entry audit.Entry) {
	c.entries = append(c.entries, entry)
}

func newWebhookService(t *testing.T, users *stubWebhookUserRepo, sites *stubSiteStatus) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Users: users,
		Sites: sites,
		Audit: &captureAudit{},
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func eventOf(t *testing.T, eventType stripe.EventType, object any) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	if err != nil {
		t.Fatalf("marshal event object: %v", err)
	}
	return &stripe.Event{
		ID:   "evt_test",
		Type: eventType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestCheckoutCompletedActivatesSite(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "joe@example.com"}
	users := newStubWebhookUserRepo()
	users.byID[user.ID] = user
	sites := &stubSiteStatus{}
	svc := newWebhookService(t, users, sites)

	event := eventOf(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":                  "cs_123",
		"client_reference_id": user.ID.String(),
		"customer":            map[string]any{"id": "cus_123"},
		"subscription":        map[string]any{"id": "sub_123"},
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}

	if sites.statuses[user.ID] != enums.SiteStatusLive {
		t.Fatalf("site should be live, got %s", sites.statuses[user.ID])
	}
	if users.customerID == nil || *users.customerID != "cus_123" {
		t.Fatal("customer id not stored")
	}
	if users.subscriptionID == nil || *users.subscriptionID != "sub_123" {
		t.Fatal("subscription id not stored")
	}
}

func TestCheckoutCompletedPrefersMetadataUserID(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "joe@example.com"}
	users := newStubWebhookUserRepo()
	users.byID[user.ID] = user
	sites := &stubSiteStatus{}
	svc := newWebhookService(t, users, sites)

	event := eventOf(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{
		"id":       "cs_123",
		"metadata": map[string]any{"user_id": user.ID.String()},
		"customer": map[string]any{"id": "cus_123"},
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if sites.statuses[user.ID] != enums.SiteStatusLive {
		t.Fatalf("site should be live, got %s", sites.statuses[user.ID])
	}
}

func TestCheckoutCompletedWithoutReferenceFails(t *testing.T) {
	svc := newWebhookService(t, newStubWebhookUserRepo(), &stubSiteStatus{})

	event := eventOf(t, stripe.EventTypeCheckoutSessionCompleted, map[string]any{"id": "cs_123"})
	err := svc.HandleEvent(context.Background(), event)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubscriptionDeletedDraftsSite(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	users := newStubWebhookUserRepo()
	users.byCustomer["cus_123"] = user
	sites := &stubSiteStatus{}
	svc := newWebhookService(t, users, sites)

	event := eventOf(t, stripe.EventTypeCustomerSubscriptionDeleted, map[string]any{
		"id":       "sub_123",
		"customer": map[string]any{"id": "cus_123"},
		"status":   "canceled",
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if sites.statuses[user.ID] != enums.SiteStatusDraft {
		t.Fatalf("site should be drafted, got %s", sites.statuses[user.ID])
	}
}

func TestSubscriptionTrialingKeepsSiteLive(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	users := newStubWebhookUserRepo()
	users.byCustomer["cus_123"] = user
	sites := &stubSiteStatus{}
	svc := newWebhookService(t, users, sites)

	event := eventOf(t, stripe.EventTypeCustomerSubscriptionUpdated, map[string]any{
		"id":       "sub_123",
		"customer": map[string]any{"id": "cus_123"},
		"status":   "trialing",
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
	if sites.statuses[user.ID] != enums.SiteStatusLive {
		t.Fatalf("trialing tenant should stay live, got %s", sites.statuses[user.ID])
	}
}

func TestSubscriptionForUnknownCustomerIsIgnored(t *testing.T) {
	sites := &stubSiteStatus{}
	svc := newWebhookService(t, newStubWebhookUserRepo(), sites)

	event := eventOf(t, stripe.EventTypeCustomerSubscriptionUpdated, map[string]any{
		"id":       "sub_123",
		"customer": map[string]any{"id": "cus_unknown"},
		"status":   "past_due",
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown customers must be acknowledged, got %v", err)
	}
	if len(sites.statuses) != 0 {
		t.Fatal("no site should change")
	}
}

func TestUnknownEventTypeIsAcknowledged(t *testing.T) {
	svc := newWebhookService(t, newStubWebhookUserRepo(), &stubSiteStatus{})

	event := eventOf(t, "invoice.finalized", map[string]any{"id": "in_123"})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown events must be acknowledged, got %v", err)
	}
}

func TestNilEventIsRejected(t *testing.T) {
	svc := newWebhookService(t, newStubWebhookUserRepo(), &stubSiteStatus{})

	err := svc.HandleEvent(context.Background(), nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
