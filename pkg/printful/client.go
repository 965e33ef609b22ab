package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradevista/websights-backend/pkg/config"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

const (
	baseURL        = "https://api.printful.com"
	defaultTimeout = 30 * time.Second
)

// Product is a catalog entry from Printful's product list.
type Product struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Image        string `json:"image"`
	VariantCount int    `json:"variant_count"`
}

// Variant is a purchasable variation of a catalog product.
type Variant struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	InStock   bool            `json:"in_stock"`
}

// Client is a thin wrapper over Printful's REST catalog API. Printful
// publishes no Go SDK, so requests are built by hand.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(cfg config.PrintfulConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "printful api key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
	}, nil
}

// ListProducts fetches the catalog, optionally filtered by category ID.
func (c *Client) ListProducts(ctx context.Context, categoryID int64) ([]Product, error) {
	path := "/products"
	if categoryID > 0 {
		path = fmt.Sprintf("/products?category_id=%d", categoryID)
	}

	var result []struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		Brand        string `json:"brand"`
		Model        string `json:"model"`
		Image        string `json:"image"`
		VariantCount int    `json:"variant_count"`
	}
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(result))
	for _, p := range result {
		products = append(products, Product(p))
	}
	return products, nil
}

// GetProductVariants fetches a single product with its variants.
func (c *Client) GetProductVariants(ctx context.Context, productID int64) (*Product, []Variant, error) {
	var result struct {
		Product struct {
			ID           int64  `json:"id"`
			Title        string `json:"title"`
			Brand        string `json:"brand"`
			Model        string `json:"model"`
			Image        string `json:"image"`
			VariantCount int    `json:"variant_count"`
		} `json:"product"`
		Variants []struct {
			ID        int64  `json:"id"`
			ProductID int64  `json:"product_id"`
			Name      string `json:"name"`
			Size      string `json:"size"`
			Color     string `json:"color"`
			Price     string `json:"price"`
			Image     string `json:"image"`
			InStock   bool   `json:"in_stock"`
		} `json:"variants"`
	}
	if err := c.get(ctx, fmt.Sprintf("/products/%d", productID), &result); err != nil {
		return nil, nil, err
	}

	product := Product(result.Product)
	variants := make([]Variant, 0, len(result.Variants))
	for _, v := range result.Variants {
		price, err := decimal.NewFromString(v.Price)
		if err != nil {
			price = decimal.Zero
		}
		variants = append(variants, Variant{
			ID:        v.ID,
			ProductID: v.ProductID,
			Name:      v.Name,
			Size:      v.Size,
			Color:     v.Color,
			Price:     price,
			Image:     v.Image,
			InStock:   v.InStock,
		})
	}
	return &product, variants, nil
}

// MockupTask tracks an asynchronous mockup render.
type MockupTask struct {
	TaskKey string `json:"task_key"`
	Status  string `json:"status"`
}

// Mockup is one rendered preview image.
type Mockup struct {
	Placement  string  `json:"placement"`
	URL        string  `json:"mockup_url"`
	VariantIDs []int64 `json:"variant_ids"`
}

// MockupResult is the state of a mockup task, with images once completed.
type MockupResult struct {
	TaskKey string   `json:"task_key"`
	Status  string   `json:"status"`
	Mockups []Mockup `json:"mockups"`
}

// CreateMockupTask starts a mockup render for a product. Rendering is
// asynchronous; poll GetMockupTask with the returned key.
func (c *Client) CreateMockupTask(ctx context.Context, productID int64, variantIDs []int64, imageURL string) (*MockupTask, error) {
	payload := map[string]any{
		"variant_ids": variantIDs,
		"format":      "jpg",
		"files": []map[string]any{
			{"placement": "front", "image_url": imageURL},
		},
	}

	var task MockupTask
	path := fmt.Sprintf("/mockup-generator/create-task/%d", productID)
	if err := c.do(ctx, http.MethodPost, path, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetMockupTask polls a mockup render task.
func (c *Client) GetMockupTask(ctx context.Context, taskKey string) (*MockupResult, error) {
	if taskKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task key is required")
	}

	var result MockupResult
	path := "/mockup-generator/task?task_key=" + url.QueryEscape(taskKey)
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding printful request")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building printful request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling printful")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading printful response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "printful resource not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		return pkgerrors.New(pkgerrors.CodeRateLimit, "printful rate limit exceeded")
	case resp.StatusCode != http.StatusOK:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("printful returned status %d", resp.StatusCode))
	}

	// Every Printful response nests its payload under "result".
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding printful envelope")
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding printful payload")
	}
	return nil
}
