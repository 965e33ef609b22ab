package digitalocean

import (
	"context"
	"strings"

	"github.com/digitalocean/godo"
	"golang.org/x/oauth2"

	"github.com/tradevista/websights-backend/pkg/config"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

// Client manages subdomain records on the platform's DigitalOcean-hosted
// apex domain.
type Client struct {
	api    *godo.Client
	domain string
	appIP  string
}

// NewClient builds a godo client from a static token source.
func NewClient(cfg config.DigitalOceanConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.APIToken)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "digitalocean api token is required")
	}
	if strings.TrimSpace(cfg.Domain) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "digitalocean apex domain is required")
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	oauthClient := oauth2.NewClient(context.Background(), tokenSource)
	return &Client{
		api:    godo.NewClient(oauthClient),
		domain: cfg.Domain,
		appIP:  cfg.AppIP,
	}, nil
}

// VerifyCredentials checks the token by fetching account info.
func (c *Client) VerifyCredentials(ctx context.Context) error {
	if _, _, err := c.api.Account.Get(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "digitalocean credential check failed")
	}
	return nil
}

// EnsureSubdomain points sub.<apex> at the platform app IP, creating or
// updating the A record as needed. Returns the record ID.
func (c *Client) EnsureSubdomain(ctx context.Context, sub string) (int, error) {
	existing, err := c.findRecord(ctx, "A", sub)
	if err != nil {
		return 0, err
	}

	edit := &godo.DomainRecordEditRequest{
		Type: "A",
		Name: sub,
		Data: c.appIP,
		TTL:  300,
	}

	if existing != nil {
		rec, _, err := c.api.Domains.EditRecord(ctx, c.domain, existing.ID, edit)
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating digitalocean dns record")
		}
		return rec.ID, nil
	}

	rec, _, err := c.api.Domains.CreateRecord(ctx, c.domain, edit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating digitalocean dns record")
	}
	return rec.ID, nil
}

// DeleteSubdomain removes the A record for sub.<apex>, if present.
func (c *Client) DeleteSubdomain(ctx context.Context, sub string) error {
	existing, err := c.findRecord(ctx, "A", sub)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if _, err := c.api.Domains.DeleteRecord(ctx, c.domain, existing.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting digitalocean dns record")
	}
	return nil
}

func (c *Client) findRecord(ctx context.Context, recordType, name string) (*godo.DomainRecord, error) {
	opt := &godo.ListOptions{PerPage: 200}
	for {
		records, resp, err := c.api.Domains.Records(ctx, c.domain, opt)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing digitalocean dns records")
		}
		for i := range records {
			if records[i].Type == recordType && records[i].Name == name {
				return &records[i], nil
			}
		}
		if resp.Links == nil || resp.Links.IsLastPage() {
			return nil, nil
		}
		page, err := resp.Links.CurrentPage()
		if err != nil {
			return nil, nil
		}
		opt.Page = page + 1
	}
}
