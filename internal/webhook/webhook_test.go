package webhook

import (
	"testing"
)

func TestNormalizeAppliesIntakeDefaults(t *testing.T) {
	got := Normalize(IntakeRequest{Email: "anon@example.com"})
	if got.Name != "Unknown" {
		t.Fatalf("expected fallback name Unknown, got %q", got.Name)
	}
	if got.Source != "Website" {
		t.Fatalf("expected default source Website, got %q", got.Source)
	}
	if got.Email != "anon@example.com" {
		t.Fatalf("expected email preserved, got %q", got.Email)
	}
}

func TestNormalizeKeepsKnownSource(t *testing.T) {
	got := Normalize(IntakeRequest{Name: " Jane ", Source: "Referral"})
	if got.Name != "Jane" {
		t.Fatalf("expected trimmed name, got %q", got.Name)
	}
	if got.Source != "Referral" {
		t.Fatalf("expected Referral kept, got %q", got.Source)
	}
}

func TestNormalizeRejectsUnknownSource(t *testing.T) {
	got := Normalize(IntakeRequest{Name: "Bob", Source: "Carrier Pigeon"})
	if got.Source != "Website" {
		t.Fatalf("expected unknown source coerced to Website, got %q", got.Source)
	}
}
