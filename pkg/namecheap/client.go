package namecheap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tradevista/websights-backend/pkg/config"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

const (
	productionURL = "https://api.namecheap.com/xml.response"
	sandboxURL    = "https://api.sandbox.namecheap.com/xml.response"

	defaultTimeout = 30 * time.Second
)

// Availability is the result of a single domain availability check.
type Availability struct {
	Domain    string
	Available bool
	Premium   bool
}

// RegistrantContact carries the contact block Namecheap requires on purchase.
// The same contact is used for registrant, tech, admin, and billing.
type RegistrantContact struct {
	FirstName    string
	LastName     string
	Address      string
	City         string
	StateProv    string
	PostalCode   string
	Country      string
	Phone        string
	EmailAddress string
}

// Registration is the outcome of a domains.create call.
type Registration struct {
	Domain        string
	OrderID       string
	ChargedAmount string
}

// Client speaks the Namecheap XML API. Namecheap publishes no Go SDK, so the
// client is a thin HTTP wrapper over the documented command surface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiUser    string
	apiKey     string
	username   string
	clientIP   string
}

// NewClient validates credentials and picks the sandbox or production host.
func NewClient(cfg config.NamecheapConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIUser) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "namecheap credentials are required")
	}
	if strings.TrimSpace(cfg.ClientIP) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "namecheap client ip is required")
	}

	baseURL := productionURL
	if cfg.Sandbox {
		baseURL = sandboxURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	username := cfg.Username
	if username == "" {
		username = cfg.APIUser
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiUser:    cfg.APIUser,
		apiKey:     cfg.APIKey,
		username:   username,
		clientIP:   cfg.ClientIP,
	}, nil
}

// CheckAvailability runs namecheap.domains.check for up to 50 domains.
func (c *Client) CheckAvailability(ctx context.Context, domains []string) ([]Availability, error) {
	if len(domains) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one domain is required")
	}

	params := url.Values{}
	params.Set("DomainList", strings.Join(domains, ","))

	var payload struct {
		CommandResponse struct {
			Results []struct {
				Domain    string `xml:"Domain,attr"`
				Available bool   `xml:"Available,attr"`
				Premium   bool   `xml:"IsPremiumName,attr"`
			} `xml:"DomainCheckResult"`
		} `xml:"CommandResponse"`
	}
	if err := c.call(ctx, "namecheap.domains.check", params, &payload); err != nil {
		return nil, err
	}

	out := make([]Availability, 0, len(payload.CommandResponse.Results))
	for _, r := range payload.CommandResponse.Results {
		out = append(out, Availability{
			Domain:    r.Domain,
			Available: r.Available,
			Premium:   r.Premium,
		})
	}
	return out, nil
}

// Register purchases a domain for one year via namecheap.domains.create.
func (c *Client) Register(ctx context.Context, domain string, contact RegistrantContact) (*Registration, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "domain is required")
	}

	params := url.Values{}
	params.Set("DomainName", domain)
	params.Set("Years", "1")
	for _, role := range []string{"Registrant", "Tech", "Admin", "AuxBilling"} {
		params.Set(role+"FirstName", contact.FirstName)
		params.Set(role+"LastName", contact.LastName)
		params.Set(role+"Address1", contact.Address)
		params.Set(role+"City", contact.City)
		params.Set(role+"StateProvince", contact.StateProv)
		params.Set(role+"PostalCode", contact.PostalCode)
		params.Set(role+"Country", contact.Country)
		params.Set(role+"Phone", contact.Phone)
		params.Set(role+"EmailAddress", contact.EmailAddress)
	}

	var payload struct {
		CommandResponse struct {
			Result struct {
				Domain        string `xml:"Domain,attr"`
				Registered    bool   `xml:"Registered,attr"`
				OrderID       string `xml:"OrderID,attr"`
				ChargedAmount string `xml:"ChargedAmount,attr"`
			} `xml:"DomainCreateResult"`
		} `xml:"CommandResponse"`
	}
	if err := c.call(ctx, "namecheap.domains.create", params, &payload); err != nil {
		return nil, err
	}
	if !payload.CommandResponse.Result.Registered {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "namecheap reported the domain was not registered")
	}

	return &Registration{
		Domain:        payload.CommandResponse.Result.Domain,
		OrderID:       payload.CommandResponse.Result.OrderID,
		ChargedAmount: payload.CommandResponse.Result.ChargedAmount,
	}, nil
}

// SetNameservers points a registered domain at custom nameservers via
// namecheap.domains.dns.setCustom.
func (c *Client) SetNameservers(ctx context.Context, domain string, nameservers []string) error {
	sld, tld, err := splitDomain(domain)
	if err != nil {
		return err
	}
	if len(nameservers) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one nameserver is required")
	}

	params := url.Values{}
	params.Set("SLD", sld)
	params.Set("TLD", tld)
	params.Set("Nameservers", strings.Join(nameservers, ","))

	var payload struct {
		CommandResponse struct {
			Result struct {
				Updated bool `xml:"Updated,attr"`
			} `xml:"DomainDNSSetCustomResult"`
		} `xml:"CommandResponse"`
	}
	if err := c.call(ctx, "namecheap.domains.dns.setCustom", params, &payload); err != nil {
		return err
	}
	if !payload.CommandResponse.Result.Updated {
		return pkgerrors.New(pkgerrors.CodeDependency, "namecheap did not accept the nameserver update")
	}
	return nil
}

func (c *Client) call(ctx context.Context, command string, params url.Values, out any) error {
	query := url.Values{}
	query.Set("ApiUser", c.apiUser)
	query.Set("ApiKey", c.apiKey)
	query.Set("UserName", c.username)
	query.Set("ClientIp", c.clientIP)
	query.Set("Command", command)
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building namecheap request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("calling %s", command))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading namecheap response")
	}
	if resp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("namecheap returned status %d", resp.StatusCode))
	}

	var envelope apiResponse
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding namecheap response")
	}
	if strings.EqualFold(envelope.Status, "ERROR") {
		msg := "namecheap command failed"
		if len(envelope.Errors) > 0 {
			msg = envelope.Errors[0].Text
		}
		return pkgerrors.New(pkgerrors.CodeDependency, msg).
			WithDetails(map[string]any{"command": command})
	}

	if err := xml.Unmarshal(body, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding namecheap command response")
	}
	return nil
}

type apiResponse struct {
	XMLName xml.Name `xml:"ApiResponse"`
	Status  string   `xml:"Status,attr"`
	Errors  []struct {
		Number string `xml:"Number,attr"`
		Text   string `xml:",chardata"`
	} `xml:"Errors>Error"`
}

func splitDomain(domain string) (sld, tld string, err error) {
	parts := strings.SplitN(strings.TrimSpace(domain), ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "domain must be of the form name.tld")
	}
	return parts[0], parts[1], nil
}
