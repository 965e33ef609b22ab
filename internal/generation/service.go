package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

// requiredSections are the top-level keys a usable site config must carry.
var requiredSections = []string{"hero", "about", "services", "contact", "theme"}

type completions interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// GenerateInput is the business profile fed to the model.
type GenerateInput struct {
	BusinessName string
	Trade        string
	City         string
	Phone        string
}

// Result carries the generated config and whether the AI produced it or the
// deterministic fallback had to step in.
type Result struct {
	Config    map[string]any
	FromModel bool
}

// Service turns a business profile into a site configuration.
type Service interface {
	Generate(ctx context.Context, input GenerateInput) (*Result, error)
	Modify(ctx context.Context, current map[string]any, instruction string) (map[string]any, error)
	DemoConfig(input GenerateInput) map[string]any
}

type service struct {
	ai   completions
	logg *logger.Logger
}

// NewService builds the generation service. The completions client may be nil
// when no API key is configured; generation then always uses the fallback.
func NewService(ai completions, logg *logger.Logger) Service {
	return &service{ai: ai, logg: logg}
}

// Generate asks the model for a site config and falls back to the template on
// any failure. It never returns an error for model problems; signup does not
// block on AI availability.
func (s *service) Generate(ctx context.Context, input GenerateInput) (*Result, error) {
	if strings.TrimSpace(input.BusinessName) == "" {
		input.BusinessName = "Your Business"
	}

	if s.ai == nil {
		return &Result{Config: fallbackConfig(input), FromModel: false}, nil
	}

	raw, err := s.ai.Complete(ctx, systemPrompt, userPrompt(input))
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("site generation fell back to template: %v", err))
		}
		return &Result{Config: fallbackConfig(input), FromModel: false}, nil
	}

	config, err := parseConfig(raw)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("model returned unusable config: %v", err))
		}
		return &Result{Config: fallbackConfig(input), FromModel: false}, nil
	}
	return &Result{Config: config, FromModel: true}, nil
}

// Modify applies a free-text instruction to an existing config. Unlike
// Generate there is no silent fallback; the caller asked for a specific
// change and needs to know when it did not happen.
func (s *service) Modify(ctx context.Context, current map[string]any, instruction string) (map[string]any, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "instruction is required")
	}
	if s.ai == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "site generation is not configured")
	}

	encoded, err := json.Marshal(current)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode current config")
	}

	raw, err := s.ai.Complete(ctx, modifySystemPrompt, modifyPrompt(string(encoded), instruction))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "modify site config")
	}

	config, err := parseConfig(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "model returned unusable config")
	}
	return config, nil
}

// DemoConfig renders the fallback template directly; used for the public
// per-trade demo sites.
func (s *service) DemoConfig(input GenerateInput) map[string]any {
	return fallbackConfig(input)
}

// parseConfig decodes the model output, tolerating markdown code fences, and
// verifies every required section is present.
func parseConfig(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var config map[string]any
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return nil, fmt.Errorf("decoding model output: %w", err)
	}
	for _, section := range requiredSections {
		if _, ok := config[section]; !ok {
			return nil, fmt.Errorf("missing section %q", section)
		}
	}
	return config, nil
}
