package types

import "testing"

func TestJSONDocRoundTrip(t *testing.T) {
	doc := JSONDoc{"theme": "bold", "pages": []any{"home", "services"}}

	value, err := doc.Value()
	if err != nil {
		t.Fatalf("Value() returned error: %v", err)
	}

	var scanned JSONDoc
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if scanned["theme"] != "bold" {
		t.Fatalf("expected theme to survive round trip, got %v", scanned["theme"])
	}
}

func TestJSONDocScanNil(t *testing.T) {
	var doc JSONDoc
	if err := doc.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) returned error: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil doc, got %v", doc)
	}
}

func TestJSONDocScanRejectsMalformed(t *testing.T) {
	var doc JSONDoc
	if err := doc.Scan([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
