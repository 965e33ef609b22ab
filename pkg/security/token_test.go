package security

import "testing"

func TestNewSessionTokenIsOpaque(t *testing.T) {
	raw, digest, err := NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken returned error: %v", err)
	}
	if raw == "" || digest == "" {
		t.Fatal("expected non-empty token and digest")
	}
	if raw == digest {
		t.Fatal("raw token must differ from its stored digest")
	}
	if DigestToken(raw) != digest {
		t.Fatal("digest must be reproducible from the raw token")
	}
}

func TestNewSessionTokenUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		raw, _, err := NewSessionToken()
		if err != nil {
			t.Fatalf("NewSessionToken returned error: %v", err)
		}
		if seen[raw] {
			t.Fatal("token repeated")
		}
		seen[raw] = true
	}
}
