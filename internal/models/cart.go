package models

// CartLine is a menu item snapshot plus a quantity. The price is frozen at
// add time so a later catalog edit does not change what the customer saw.
type CartLine struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// Cart is the aggregate of a single shopper's selected lines. Every
// surviving line has quantity >= 1; totals are derived, never stored.
type Cart struct {
	Lines []CartLine `json:"items"`
}

// Add inserts a line or increases the quantity of an existing one.
func (c *Cart) Add(item MenuItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == item.ID {
			c.Lines[i].Quantity += quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		PriceCents: item.PriceCents,
		Quantity:   quantity,
	})
	return nil
}

// SetQuantity replaces a line's quantity. Anything below 1 removes the line.
func (c *Cart) SetQuantity(menuItemID int64, quantity int) {
	if quantity < 1 {
		c.Remove(menuItemID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == menuItemID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes a line. Removing an absent line is a no-op.
func (c *Cart) Remove(menuItemID int64) {
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == menuItemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// TotalCents is the sum of price*quantity over all lines.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.PriceCents * int64(line.Quantity)
	}
	return total
}

// Count is the sum of quantities, used for the cart badge.
func (c *Cart) Count() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
