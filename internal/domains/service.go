package domains

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/cloudflare"
	"github.com/tradevista/websights-backend/pkg/config"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/namecheap"
)

var defaultSuggestTLDs = []string{"com", "net", "co"}

type registrar interface {
	CheckAvailability(ctx context.Context, domains []string) ([]namecheap.Availability, error)
	Register(ctx context.Context, domain string, contact namecheap.RegistrantContact) (*namecheap.Registration, error)
	SetNameservers(ctx context.Context, domain string, nameservers []string) error
}

type dnsZone interface {
	EnsureRecord(ctx context.Context, rec cloudflare.Record) (string, error)
}

type infraDNS interface {
	EnsureSubdomain(ctx context.Context, sub string) (int, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Service executes the admin domain actions against the vendor gateways.
type Service interface {
	Dispatch(ctx context.Context, actorID uuid.UUID, req Request) (any, error)
}

// ServiceParams groups dependencies for the domains service.
type ServiceParams struct {
	Registrar registrar
	Zone      dnsZone
	Infra     infraDNS
	Audit     auditRecorder
	Platform  config.PlatformConfig
}

type service struct {
	registrar registrar
	zone      dnsZone
	infra     infraDNS
	audit     auditRecorder
	platform  config.PlatformConfig
}

// NewService builds the domains service.
func NewService(params ServiceParams) (Service, error) {
	if params.Registrar == nil {
		return nil, fmt.Errorf("registrar client is required")
	}
	if params.Zone == nil {
		return nil, fmt.Errorf("dns zone client is required")
	}
	if params.Infra == nil {
		return nil, fmt.Errorf("infra dns client is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{
		registrar: params.Registrar,
		zone:      params.Zone,
		infra:     params.Infra,
		audit:     params.Audit,
		platform:  params.Platform,
	}, nil
}

// Dispatch validates the tagged-union request and runs its single variant.
func (s *service) Dispatch(ctx context.Context, actorID uuid.UUID, req Request) (any, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Action {
	case ActionCheck:
		return s.check(ctx, *req.Check)
	case ActionSuggest:
		return s.suggest(ctx, *req.Suggest)
	case ActionRegister:
		return s.register(ctx, actorID, *req.Register)
	case ActionConfigureDNS:
		return s.configureDNS(ctx, actorID, *req.ConfigureDNS)
	case ActionCreateSubdomain:
		return s.createSubdomain(ctx, actorID, *req.CreateSubdomain)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown domain action")
	}
}

func (s *service) check(ctx context.Context, input CheckInput) ([]namecheap.Availability, error) {
	return s.registrar.CheckAvailability(ctx, normalizeDomains(input.Domains))
}

// suggest derives candidate names from the business name and asks the
// registrar about each in one call.
func (s *service) suggest(ctx context.Context, input SuggestInput) ([]Suggestion, error) {
	base := slug.Make(input.BusinessName)
	if base == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name yields no usable domain")
	}

	tlds := input.TLDs
	if len(tlds) == 0 {
		tlds = defaultSuggestTLDs
	}
	compact := strings.ReplaceAll(base, "-", "")

	candidates := make([]string, 0, len(tlds)*2)
	seen := map[string]bool{}
	for _, tld := range tlds {
		tld = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tld)), ".")
		if tld == "" {
			continue
		}
		for _, name := range []string{base, compact} {
			candidate := name + "." + tld
			if !seen[candidate] {
				seen[candidate] = true
				candidates = append(candidates, candidate)
			}
		}
	}

	checked, err := s.registrar.CheckAvailability(ctx, candidates)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(checked))
	for _, availability := range checked {
		suggestions = append(suggestions, Suggestion{
			Domain:    availability.Domain,
			Available: availability.Available,
			Premium:   availability.Premium,
		})
	}
	return suggestions, nil
}

// register purchases the domain, then assigns the platform nameservers. A
// nameserver failure after a successful purchase is reported alongside the
// registration, never as a rollback.
func (s *service) register(ctx context.Context, actorID uuid.UUID, input RegisterInput) (*RegisterResult, error) {
	domain := strings.ToLower(strings.TrimSpace(input.Domain))

	registration, err := s.registrar.Register(ctx, domain, input.Contact)
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{Registration: registration}
	if err := s.registrar.SetNameservers(ctx, domain, s.platform.Nameservers); err != nil {
		result.NameserverError = err.Error()
	} else {
		result.NameserversSet = true
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "domains.register",
		Detail: map[string]any{
			"domain":          domain,
			"order_id":        registration.OrderID,
			"nameservers_set": result.NameserversSet,
		},
	})
	return result, nil
}

func (s *service) configureDNS(ctx context.Context, actorID uuid.UUID, input ConfigureDNSInput) (*DNSRecordResult, error) {
	recordType := strings.ToUpper(strings.TrimSpace(input.Type))
	if recordType == "" {
		recordType = "A"
	}

	recordID, err := s.zone.EnsureRecord(ctx, cloudflare.Record{
		Type:    recordType,
		Name:    strings.ToLower(strings.TrimSpace(input.Name)),
		Content: strings.TrimSpace(input.Content),
		Proxied: input.Proxied,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "domains.configure_dns",
		Detail:  map[string]any{"name": input.Name, "type": recordType},
	})
	return &DNSRecordResult{RecordID: recordID}, nil
}

func (s *service) createSubdomain(ctx context.Context, actorID uuid.UUID, input CreateSubdomainInput) (*SubdomainResult, error) {
	sub := strings.ToLower(strings.TrimSpace(input.Subdomain))
	if !slug.IsSlug(sub) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subdomain must be a lowercase slug")
	}

	recordID, err := s.infra.EnsureSubdomain(ctx, sub)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "domains.create_subdomain",
		Detail:  map[string]any{"subdomain": sub},
	})
	return &SubdomainResult{
		Subdomain: sub,
		FQDN:      sub + "." + s.platform.BaseDomain,
		RecordID:  recordID,
	}, nil
}

func normalizeDomains(domains []string) []string {
	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			normalized = append(normalized, domain)
		}
	}
	return normalized
}
