package enums

import "fmt"

// ContentType declares how a CMS content value should be parsed.
type ContentType string

const (
	ContentTypeText    ContentType = "text"
	ContentTypeHTML    ContentType = "html"
	ContentTypeJSON    ContentType = "json"
	ContentTypeNumber  ContentType = "number"
	ContentTypeBoolean ContentType = "boolean"
)

// IsValid reports whether the content type is known.
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeText, ContentTypeHTML, ContentTypeJSON, ContentTypeNumber, ContentTypeBoolean:
		return true
	}
	return false
}

// ParseContentType converts a raw string into a ContentType.
func ParseContentType(raw string) (ContentType, error) {
	c := ContentType(raw)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid content type %q", raw)
	}
	return c, nil
}
