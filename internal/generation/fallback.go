package generation

import (
	"fmt"
	"strings"
)

// fallbackConfig builds a serviceable default site when the AI call fails or
// returns unusable output. Signup must never block on the model.
func fallbackConfig(input GenerateInput) map[string]any {
	trade := strings.ToLower(input.Trade)
	if trade == "" {
		trade = "trades"
	}
	area := input.City
	if area == "" {
		area = "your area"
	}

	return map[string]any{
		"hero": map[string]any{
			"headline":    fmt.Sprintf("%s — %s you can count on", input.BusinessName, trade),
			"subheadline": fmt.Sprintf("Serving %s with honest work and fair prices.", area),
			"cta_text":    "Get a free quote",
		},
		"about": map[string]any{
			"title": fmt.Sprintf("About %s", input.BusinessName),
			"body": fmt.Sprintf(
				"%s is a local %s business serving %s. We show up on time, do the job right, and stand behind our work.",
				input.BusinessName, trade, area),
		},
		"services": []any{
			map[string]any{"name": "Repairs", "description": "Fast, reliable fixes when something breaks."},
			map[string]any{"name": "Installations", "description": "New installations done to code, first time."},
			map[string]any{"name": "Maintenance", "description": "Scheduled upkeep that prevents expensive surprises."},
		},
		"contact": map[string]any{
			"phone":        input.Phone,
			"email_prompt": "Tell us about your project and we'll get back to you within one business day.",
			"service_area": area,
		},
		"theme": map[string]any{
			"primary_color": "#1d4ed8",
			"accent_color":  "#f59e0b",
			"font":          "Inter",
		},
	}
}
