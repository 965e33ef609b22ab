package enums

// SiteStatus tracks whether a tenant site is publicly served.
type SiteStatus string

const (
	SiteStatusDraft SiteStatus = "draft"
	SiteStatusLive  SiteStatus = "live"
)

// IsValid reports whether the status is a known site status.
func (s SiteStatus) IsValid() bool {
	return s == SiteStatusDraft || s == SiteStatusLive
}
