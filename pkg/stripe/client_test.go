package stripe

import (
	"context"
	"testing"

	"github.com/tradevista/websights-backend/pkg/config"
)

func TestNormalizeEnv(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", testEnv, false},
		{"test", testEnv, false},
		{"LIVE", liveEnv, false},
		{" live ", liveEnv, false},
		{"staging", "", true},
	}
	for _, tt := range tests {
		got, err := normalizeEnv(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("normalizeEnv(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("normalizeEnv(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateAPIKey(t *testing.T) {
	if err := validateAPIKey(testEnv, "sk_test_abc"); err != nil {
		t.Fatalf("test key rejected: %v", err)
	}
	if err := validateAPIKey(liveEnv, "sk_live_abc"); err != nil {
		t.Fatalf("live key rejected: %v", err)
	}
	if err := validateAPIKey(testEnv, "sk_live_abc"); err == nil {
		t.Fatal("live key accepted in test env")
	}
	if err := validateAPIKey(liveEnv, "sk_test_abc"); err == nil {
		t.Fatal("test key accepted in live env")
	}
}

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()

	if _, err := NewClient(ctx, config.StripeConfig{Secret: "whsec_x"}, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc"}, nil); err == nil {
		t.Fatal("expected error for missing webhook secret")
	}

	client, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc", Secret: "whsec_x", Env: "test"}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if client.Environment() != testEnv {
		t.Fatalf("unexpected environment %q", client.Environment())
	}
	if client.SigningSecret() != "whsec_x" {
		t.Fatal("signing secret not retained")
	}
}
