package server

import "testing"

func TestValidateScanRequestRequiresFields(t *testing.T) {
	_, err := validateScanRequest(ScanRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidateScanRequestTrims(t *testing.T) {
	got, err := validateScanRequest(ScanRequest{RepoDir: "  /repo  ", BaseRef: " main ", HeadRef: " feature "})
	if err != nil {
		t.Fatalf("validateScanRequest() error = %v", err)
	}
	if got.RepoDir != "/repo" || got.BaseRef != "main" || got.HeadRef != "feature" {
		t.Fatalf("expected trimmed fields, got %+v", got)
	}
}

func TestNewRunIDIsUnique(t *testing.T) {
	a := newRunID()
	b := newRunID()
	if a == "" || b == "" || a == b {
		t.Fatalf("expected two distinct non-empty run IDs, got %q and %q", a, b)
	}
}
