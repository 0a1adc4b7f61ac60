package expiry

import (
	"testing"
	"time"
)

func TestDateFrom(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	d := DateFrom(base, 12, true)
	if d == nil {
		t.Fatalf("expected a date")
	}
	want := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *d)
	}
}

func TestDateFrom_DisabledReturnsNil(t *testing.T) {
	if d := DateFrom(time.Now(), 12, false); d != nil {
		t.Fatalf("expected nil when expiry is disabled, got %v", *d)
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	if !IsExpired(&past, now, true) {
		t.Fatalf("past date must be expired")
	}
	if IsExpired(&future, now, true) {
		t.Fatalf("future date must not be expired")
	}
	if IsExpired(nil, now, true) {
		t.Fatalf("unset date must not be expired")
	}
	if IsExpired(&past, now, false) {
		t.Fatalf("disabled tracking must never report expired")
	}
}
