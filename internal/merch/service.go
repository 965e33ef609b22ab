package merch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/printful"
)

type catalog interface {
	ListProducts(ctx context.Context, categoryID int64) ([]printful.Product, error)
	GetProductVariants(ctx context.Context, productID int64) (*printful.Product, []printful.Variant, error)
	CreateMockupTask(ctx context.Context, productID int64, variantIDs []int64, imageURL string) (*printful.MockupTask, error)
	GetMockupTask(ctx context.Context, taskKey string) (*printful.MockupResult, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// ProductDetail bundles a product with its variants for the admin browser.
type ProductDetail struct {
	Product  printful.Product   `json:"product"`
	Variants []printful.Variant `json:"variants"`
}

// MockupInput starts a mockup render for a product.
type MockupInput struct {
	ProductID  int64   `json:"product_id"`
	VariantIDs []int64 `json:"variant_ids"`
	ImageURL   string  `json:"image_url"`
}

// Service exposes the print-on-demand catalog to the admin panel.
type Service interface {
	ListProducts(ctx context.Context, categoryID int64) ([]printful.Product, error)
	GetProduct(ctx context.Context, productID int64) (*ProductDetail, error)
	CreateMockup(ctx context.Context, actorID uuid.UUID, input MockupInput) (*printful.MockupTask, error)
	GetMockup(ctx context.Context, taskKey string) (*printful.MockupResult, error)
}

// ServiceParams groups dependencies for the merch service.
type ServiceParams struct {
	Catalog catalog
	Audit   auditRecorder
}

type service struct {
	catalog catalog
	audit   auditRecorder
}

// NewService builds the merch service.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog client is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{catalog: params.Catalog, audit: params.Audit}, nil
}

func (s *service) ListProducts(ctx context.Context, categoryID int64) ([]printful.Product, error) {
	return s.catalog.ListProducts(ctx, categoryID)
}

func (s *service) GetProduct(ctx context.Context, productID int64) (*ProductDetail, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, variants, err := s.catalog.GetProductVariants(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *product, Variants: variants}, nil
}

func (s *service) CreateMockup(ctx context.Context, actorID uuid.UUID, input MockupInput) (*printful.MockupTask, error) {
	if input.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if len(input.VariantIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one variant id is required")
	}
	if !strings.HasPrefix(input.ImageURL, "http") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url must be absolute")
	}

	task, err := s.catalog.CreateMockupTask(ctx, input.ProductID, input.VariantIDs, input.ImageURL)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "printful.mockup_requested",
		Detail: map[string]any{
			"product_id": input.ProductID,
			"task_key":   task.TaskKey,
		},
	})
	return task, nil
}

func (s *service) GetMockup(ctx context.Context, taskKey string) (*printful.MockupResult, error) {
	if strings.TrimSpace(taskKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task key is required")
	}
	return s.catalog.GetMockupTask(ctx, taskKey)
}
