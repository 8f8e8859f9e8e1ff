package models

import (
	"strings"
	"testing"
	"time"
)

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusPending, StatusPending, false},
		{"", StatusPending, false},
	}
	for _, tt := range tests {
		got := ValidStatusTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"pending", "processing", "completed", "cancelled"} {
		if _, err := ParseOrderStatus(valid); err != nil {
			t.Errorf("ParseOrderStatus(%q) returned error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "shipped", "PENDING", "done"} {
		if _, err := ParseOrderStatus(invalid); err == nil {
			t.Errorf("ParseOrderStatus(%q) should fail", invalid)
		}
	}
}

func TestCheckoutRequestValidate(t *testing.T) {
	req := &CheckoutRequest{Name: "Jamie Doe", Phone: "555-0100", Address: "1 Main St"}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	req = &CheckoutRequest{Phone: "555-0100"}
	err := req.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Fields) != 2 {
		t.Errorf("missing fields = %v, want [name address]", ve.Fields)
	}
	if !strings.Contains(err.Error(), "name") || !strings.Contains(err.Error(), "address") {
		t.Errorf("error message should list missing fields: %s", err)
	}
}

func TestOrderOwner(t *testing.T) {
	guest := &Order{}
	if guest.Owner() != GuestOwner {
		t.Errorf("Owner() = %q, want %q", guest.Owner(), GuestOwner)
	}
	if guest.OwnedBy(1) {
		t.Error("guest order should not be owned by any user")
	}

	uid := int64(7)
	owned := &Order{UserID: &uid}
	if owned.Owner() != "7" {
		t.Errorf("Owner() = %q, want \"7\"", owned.Owner())
	}
	if !owned.OwnedBy(7) || owned.OwnedBy(8) {
		t.Error("OwnedBy mismatch")
	}
}

func TestCalculatePriority(t *testing.T) {
	tests := []struct {
		totalCents int64
		want       int
	}{
		{499, 1},
		{4999, 1},
		{5000, 5},
		{10000, 5},
		{10001, 10},
		{25000, 10},
	}
	for _, tt := range tests {
		if got := CalculatePriority(tt.totalCents); got != tt.want {
			t.Errorf("CalculatePriority(%d) = %d, want %d", tt.totalCents, got, tt.want)
		}
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	date := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if got := GenerateOrderNumber(date, 7); got != "ORD_20260314_007" {
		t.Errorf("GenerateOrderNumber = %q, want ORD_20260314_007", got)
	}
}
