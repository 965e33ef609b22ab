package generation

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a copywriter and web designer for small trades businesses.
Given a business profile you produce a complete website configuration as a
single JSON object with exactly these top-level keys:
  "hero":     {"headline", "subheadline", "cta_text"}
  "about":    {"title", "body"}
  "services": [{"name", "description"}] (3 to 6 entries)
  "contact":  {"phone", "email_prompt", "service_area"}
  "theme":    {"primary_color", "accent_color", "font"}
Respond with the JSON object only. No markdown, no commentary.`

const modifySystemPrompt = `You are a copywriter and web designer for small trades businesses.
You are given the current website configuration as JSON plus an instruction
describing the change the owner wants. Apply the instruction and return the
complete updated configuration with the same top-level keys:
"hero", "about", "services", "contact", "theme".
Respond with the JSON object only. No markdown, no commentary.`

func modifyPrompt(currentConfig, instruction string) string {
	var b strings.Builder
	b.WriteString("Current configuration:\n")
	b.WriteString(currentConfig)
	b.WriteString("\n\nRequested change: ")
	b.WriteString(instruction)
	return b.String()
}

func userPrompt(input GenerateInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business name: %s\n", input.BusinessName)
	fmt.Fprintf(&b, "Trade: %s\n", input.Trade)
	if input.City != "" {
		fmt.Fprintf(&b, "City: %s\n", input.City)
	}
	if input.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", input.Phone)
	}
	b.WriteString("Write warm, trustworthy copy a local customer would respond to.")
	return b.String()
}
