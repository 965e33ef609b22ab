package merch

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradevista/websights-backend/internal/audit"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/printful"
)

type stubCatalog struct {
	products []printful.Product
	variants []printful.Variant
	task     *printful.MockupTask
	result   *printful.MockupResult
	err      error

	lastCategory  int64
	lastProductID int64
}

func (s *stubCatalog) ListProducts(ctx context.Context, categoryID int64) ([]printful.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastCategory = categoryID
	return s.products, nil
}

func (s *stubCatalog) GetProductVariants(ctx context.Context, productID int64) (*printful.Product, []printful.Variant, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.lastProductID = productID
	return &printful.Product{ID: productID, Title: "Unisex Tee"}, s.variants, nil
}

func (s *stubCatalog) CreateMockupTask(ctx context.Context, productID int64, variantIDs []int64, imageURL string) (*printful.MockupTask, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.task == nil {
		s.task = &printful.MockupTask{TaskKey: "task-1", Status: "pending"}
	}
	return s.task, nil
}

func (s *stubCatalog) GetMockupTask(ctx context.Context, taskKey string) (*printful.MockupResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type captureAudit struct {
	entries []audit.Entry
}

func (c *captureAudit) Record(ctx context.Context, entry audit.Entry) {
	c.entries = append(c.entries, entry)
}

func newMerchService(t *testing.T, catalog *stubCatalog) (Service, *captureAudit) {
	t.Helper()
	recorder := &captureAudit{}
	svc, err := NewService(ServiceParams{Catalog: catalog, Audit: recorder})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, recorder
}

func TestGetProductReturnsVariants(t *testing.T) {
	catalog := &stubCatalog{
		variants: []printful.Variant{
			{ID: 1, Name: "Tee / S", Price: decimal.RequireFromString("19.50")},
		},
	}
	svc, _ := newMerchService(t, catalog)

	detail, err := svc.GetProduct(context.Background(), 71)
	if err != nil {
		t.Fatalf("GetProduct returned error: %v", err)
	}
	if catalog.lastProductID != 71 {
		t.Fatalf("wrong product requested: %d", catalog.lastProductID)
	}
	if len(detail.Variants) != 1 || !detail.Variants[0].Price.Equal(decimal.RequireFromString("19.50")) {
		t.Fatalf("unexpected variants %+v", detail.Variants)
	}
}

func TestGetProductRejectsZeroID(t *testing.T) {
	svc, _ := newMerchService(t, &stubCatalog{})

	_, err := svc.GetProduct(context.Background(), 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateMockupAudits(t *testing.T) {
	svc, recorder := newMerchService(t, &stubCatalog{})
	actor := uuid.New()

	task, err := svc.CreateMockup(context.Background(), actor, MockupInput{
		ProductID:  71,
		VariantIDs: []int64{4011, 4012},
		ImageURL:   "https://cdn.tradevista.io/logos/joe.png",
	})
	if err != nil {
		t.Fatalf("CreateMockup returned error: %v", err)
	}
	if task.TaskKey != "task-1" {
		t.Fatalf("unexpected task %+v", task)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != "printful.mockup_requested" {
		t.Fatal("mockup creation must be audited")
	}
}

func TestCreateMockupValidation(t *testing.T) {
	svc, _ := newMerchService(t, &stubCatalog{})

	cases := []MockupInput{
		{VariantIDs: []int64{1}, ImageURL: "https://x/y.png"},
		{ProductID: 71, ImageURL: "https://x/y.png"},
		{ProductID: 71, VariantIDs: []int64{1}, ImageURL: "ftp://x/y.png"},
	}
	for _, input := range cases {
		_, err := svc.CreateMockup(context.Background(), uuid.New(), input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestGetMockupRequiresKey(t *testing.T) {
	svc, _ := newMerchService(t, &stubCatalog{})

	_, err := svc.GetMockup(context.Background(), " ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCatalogErrorsPropagate(t *testing.T) {
	svc, _ := newMerchService(t, &stubCatalog{err: pkgerrors.New(pkgerrors.CodeRateLimit, "printful rate limit exceeded")})

	_, err := svc.ListProducts(context.Background(), 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}
