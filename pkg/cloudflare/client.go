package cloudflare

import (
	"context"
	"strings"

	cf "github.com/cloudflare/cloudflare-go"

	"github.com/tradevista/websights-backend/pkg/config"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

// Record is the subset of a DNS record the domain flows care about.
type Record struct {
	ID      string
	Type    string
	Name    string
	Content string
	Proxied bool
}

// Client manages DNS records in the platform's Cloudflare zone.
type Client struct {
	api    *cf.API
	zoneID string
}

// NewClient validates the configured token against the Cloudflare API surface.
func NewClient(cfg config.CloudflareConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.APIToken)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cloudflare api token is required")
	}
	zoneID := strings.TrimSpace(cfg.ZoneID)
	if zoneID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cloudflare zone id is required")
	}

	api, err := cf.NewWithAPIToken(token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "initializing cloudflare client")
	}
	return &Client{api: api, zoneID: zoneID}, nil
}

// VerifyToken confirms the API token is valid. Called at startup.
func (c *Client) VerifyToken(ctx context.Context) error {
	if _, err := c.api.VerifyAPIToken(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cloudflare token verification failed")
	}
	return nil
}

// EnsureRecord upserts a DNS record by type+name within the platform zone and
// returns the resulting record ID.
func (c *Client) EnsureRecord(ctx context.Context, rec Record) (string, error) {
	zone := cf.ZoneIdentifier(c.zoneID)

	existing, _, err := c.api.ListDNSRecords(ctx, zone, cf.ListDNSRecordsParams{
		Type: rec.Type,
		Name: rec.Name,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cloudflare dns records")
	}

	proxied := rec.Proxied
	if len(existing) > 0 {
		updated, err := c.api.UpdateDNSRecord(ctx, zone, cf.UpdateDNSRecordParams{
			ID:      existing[0].ID,
			Type:    rec.Type,
			Name:    rec.Name,
			Content: rec.Content,
			Proxied: &proxied,
		})
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cloudflare dns record")
		}
		return updated.ID, nil
	}

	created, err := c.api.CreateDNSRecord(ctx, zone, cf.CreateDNSRecordParams{
		Type:    rec.Type,
		Name:    rec.Name,
		Content: rec.Content,
		Proxied: &proxied,
		TTL:     1, // automatic
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cloudflare dns record")
	}
	return created.ID, nil
}

// DeleteRecord removes a DNS record from the platform zone.
func (c *Client) DeleteRecord(ctx context.Context, recordID string) error {
	if err := c.api.DeleteDNSRecord(ctx, cf.ZoneIdentifier(c.zoneID), recordID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting cloudflare dns record")
	}
	return nil
}
