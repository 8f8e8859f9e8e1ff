package models

import "testing"

func itemA() MenuItem { return MenuItem{ID: 1, Name: "Crispy Calamari", PriceCents: 299} }
func itemB() MenuItem { return MenuItem{ID: 2, Name: "Bruschetta", PriceCents: 199} }

func TestCart_AddAndTotal(t *testing.T) {
	var cart Cart

	if err := cart.Add(itemA(), 2); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := cart.Add(itemB(), 1); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if got := cart.TotalCents(); got != 797 {
		t.Errorf("TotalCents() = %d, want 797", got)
	}
	if got := cart.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}

	cart.Remove(1)
	if got := cart.TotalCents(); got != 199 {
		t.Errorf("TotalCents() after Remove = %d, want 199", got)
	}
}

func TestCart_AddMergesExistingLine(t *testing.T) {
	var cart Cart
	_ = cart.Add(itemA(), 1)
	_ = cart.Add(itemA(), 2)

	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 3 {
		t.Errorf("merged quantity = %d, want 3", cart.Lines[0].Quantity)
	}
}

func TestCart_AddRejectsNonPositiveQuantity(t *testing.T) {
	var cart Cart
	for _, qty := range []int{0, -1, -100} {
		if err := cart.Add(itemA(), qty); err != ErrInvalidQuantity {
			t.Errorf("Add(qty=%d) error = %v, want ErrInvalidQuantity", qty, err)
		}
	}
	if !cart.IsEmpty() {
		t.Error("cart should stay empty after rejected adds")
	}
}

func TestCart_SetQuantity(t *testing.T) {
	var cart Cart
	_ = cart.Add(itemA(), 2)

	cart.SetQuantity(1, 5)
	if cart.Lines[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", cart.Lines[0].Quantity)
	}

	// below 1 removes the line rather than keeping a zero-quantity row
	cart.SetQuantity(1, 0)
	if !cart.IsEmpty() {
		t.Error("expected line removed when quantity set below 1")
	}

	// setting quantity of an absent line is a no-op
	cart.SetQuantity(42, 3)
	if !cart.IsEmpty() {
		t.Error("expected no line created for unknown item")
	}
}

func TestCart_RemoveIsIdempotent(t *testing.T) {
	var cart Cart
	_ = cart.Add(itemA(), 1)

	cart.Remove(99)
	if len(cart.Lines) != 1 {
		t.Fatalf("removing absent item changed the cart")
	}
	cart.Remove(1)
	cart.Remove(1)
	if !cart.IsEmpty() {
		t.Error("expected empty cart after removes")
	}
}

func TestCart_InvariantNoLineBelowOne(t *testing.T) {
	var cart Cart
	_ = cart.Add(itemA(), 3)
	_ = cart.Add(itemB(), 1)
	cart.SetQuantity(1, -2)
	cart.SetQuantity(2, 4)
	_ = cart.Add(itemB(), 2)

	for _, line := range cart.Lines {
		if line.Quantity < 1 {
			t.Errorf("line %d has quantity %d, invariant violated", line.MenuItemID, line.Quantity)
		}
	}
	if got, want := cart.TotalCents(), int64(6*199); got != want {
		t.Errorf("TotalCents() = %d, want %d", got, want)
	}
}

func TestCart_Clear(t *testing.T) {
	var cart Cart
	_ = cart.Add(itemA(), 2)
	cart.Clear()
	if !cart.IsEmpty() || cart.TotalCents() != 0 || cart.Count() != 0 {
		t.Error("expected cleared cart to be empty with zero totals")
	}
}
