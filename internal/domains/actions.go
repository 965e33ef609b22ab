package domains

import (
	"strings"

	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/namecheap"
)

// Action names one domain operation. The request body carries exactly one
// variant; dispatch is exhaustive over these values.
type Action string

const (
	ActionCheck           Action = "check"
	ActionSuggest         Action = "suggest"
	ActionRegister        Action = "register"
	ActionConfigureDNS    Action = "configure_dns"
	ActionCreateSubdomain Action = "create_subdomain"
)

// CheckInput asks the registrar whether the listed domains are purchasable.
type CheckInput struct {
	Domains []string `json:"domains"`
}

// SuggestInput derives candidate domains from a business name and reports
// their availability.
type SuggestInput struct {
	BusinessName string   `json:"business_name"`
	TLDs         []string `json:"tlds,omitempty"`
}

// RegisterInput purchases a domain and then points it at the platform.
type RegisterInput struct {
	Domain  string                      `json:"domain"`
	Contact namecheap.RegistrantContact `json:"contact"`
}

// ConfigureDNSInput upserts one DNS record in the managed zone.
type ConfigureDNSInput struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Proxied bool   `json:"proxied"`
}

// CreateSubdomainInput provisions a platform subdomain A record.
type CreateSubdomainInput struct {
	Subdomain string `json:"subdomain"`
}

// Request is the tagged-union body of the admin domains endpoint. Exactly one
// variant must be populated, matching Action.
type Request struct {
	Action          Action                `json:"action"`
	Check           *CheckInput           `json:"check,omitempty"`
	Suggest         *SuggestInput         `json:"suggest,omitempty"`
	Register        *RegisterInput        `json:"register,omitempty"`
	ConfigureDNS    *ConfigureDNSInput    `json:"configure_dns,omitempty"`
	CreateSubdomain *CreateSubdomainInput `json:"create_subdomain,omitempty"`
}

// Validate checks that the populated variant matches the declared action.
func (r Request) Validate() error {
	switch r.Action {
	case ActionCheck:
		if r.Check == nil || len(r.Check.Domains) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "check.domains is required")
		}
	case ActionSuggest:
		if r.Suggest == nil || strings.TrimSpace(r.Suggest.BusinessName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "suggest.business_name is required")
		}
	case ActionRegister:
		if r.Register == nil || strings.TrimSpace(r.Register.Domain) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "register.domain is required")
		}
	case ActionConfigureDNS:
		if r.ConfigureDNS == nil || strings.TrimSpace(r.ConfigureDNS.Name) == "" || strings.TrimSpace(r.ConfigureDNS.Content) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "configure_dns.name and configure_dns.content are required")
		}
	case ActionCreateSubdomain:
		if r.CreateSubdomain == nil || strings.TrimSpace(r.CreateSubdomain.Subdomain) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "create_subdomain.subdomain is required")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown domain action")
	}
	return nil
}

// Suggestion is one candidate domain with its registrar-reported state.
type Suggestion struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
	Premium   bool   `json:"premium"`
}

// RegisterResult is a composite outcome: a successful purchase is reported
// even when the follow-up nameserver assignment fails.
type RegisterResult struct {
	Registration    *namecheap.Registration `json:"registration"`
	NameserversSet  bool                    `json:"nameservers_set"`
	NameserverError string                  `json:"nameserver_error,omitempty"`
}

// DNSRecordResult reports the upserted record in the managed zone.
type DNSRecordResult struct {
	RecordID string `json:"record_id"`
}

// SubdomainResult reports the provisioned platform subdomain.
type SubdomainResult struct {
	Subdomain string `json:"subdomain"`
	FQDN      string `json:"fqdn"`
	RecordID  int    `json:"record_id"`
}
