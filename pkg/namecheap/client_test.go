package namecheap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    srv.URL,
		apiUser:    "tester",
		apiKey:     "key",
		username:   "tester",
		clientIP:   "203.0.113.10",
	}
}

func TestSplitDomain(t *testing.T) {
	sld, tld, err := splitDomain("joesplumbing.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sld != "joesplumbing" || tld != "com" {
		t.Fatalf("unexpected split %q/%q", sld, tld)
	}

	if _, _, err := splitDomain("nodot"); err == nil {
		t.Fatal("expected error for bare label")
	}
	if _, _, err := splitDomain(""); err == nil {
		t.Fatal("expected error for empty domain")
	}
}

func TestCheckAvailability(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("Command"); got != "namecheap.domains.check" {
			t.Fatalf("unexpected command %q", got)
		}
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<ApiResponse Status="OK">
  <CommandResponse>
    <DomainCheckResult Domain="joesplumbing.com" Available="true" IsPremiumName="false"/>
    <DomainCheckResult Domain="taken.com" Available="false" IsPremiumName="false"/>
  </CommandResponse>
</ApiResponse>`))
	})

	results, err := client.CheckAvailability(context.Background(), []string{"joesplumbing.com", "taken.com"})
	if err != nil {
		t.Fatalf("CheckAvailability returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Available || results[1].Available {
		t.Fatalf("unexpected availability %+v", results)
	}
}

func TestCallSurfacesAPIErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<ApiResponse Status="ERROR">
  <Errors><Error Number="1011102">API Key is invalid</Error></Errors>
</ApiResponse>`))
	})

	_, err := client.CheckAvailability(context.Background(), []string{"joesplumbing.com"})
	if err == nil {
		t.Fatal("expected error from ERROR status response")
	}
}

func TestCheckAvailabilityRequiresInput(t *testing.T) {
	client := &Client{}
	if _, err := client.CheckAvailability(context.Background(), nil); err == nil {
		t.Fatal("expected validation error for empty domain list")
	}
}
