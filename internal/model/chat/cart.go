package chat

import "github.com/rauldpena/delicia/backend/internal/model/menu"

// CartLine is one item entry in a session's cart. UnitPrice is copied from the
// catalog at add time; Subtotal is recomputed on every mutation so it always
// equals Quantity × UnitPrice.
type CartLine struct {
	ItemID    int     `json:"itemId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Notes     string  `json:"notes,omitempty"`
	Subtotal  float64 `json:"subtotal"`
}

// Cart is a session's basket. Lines are keyed by item id: adding an item that
// is already present merges into the existing line.
type Cart struct {
	SessionID   string     `json:"sessionId"`
	Lines       []CartLine `json:"items"`
	TotalItems  int        `json:"totalItems"`
	TotalAmount float64    `json:"totalAmount"`
}

// NewCart returns an empty cart owned by the given session.
func NewCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID}
}

// Add puts quantity units of item into the cart. A line for the same item id
// is merged; supplied notes overwrite the line's previous notes.
func (c *Cart) Add(item menu.Item, quantity int, notes string) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == item.ID {
			c.Lines[i].Quantity += quantity
			if notes != "" {
				c.Lines[i].Notes = notes
			}
			c.recompute()
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  quantity,
		Notes:     notes,
	})
	c.recompute()
}

// Clear removes every line from the cart.
func (c *Cart) Clear() {
	c.Lines = nil
	c.TotalItems = 0
	c.TotalAmount = 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	copied := *c
	copied.Lines = append([]CartLine(nil), c.Lines...)
	return &copied
}

func (c *Cart) recompute() {
	totalItems := 0
	totalAmount := 0.0
	for i := range c.Lines {
		c.Lines[i].Subtotal = float64(c.Lines[i].Quantity) * c.Lines[i].UnitPrice
		totalItems += c.Lines[i].Quantity
		totalAmount += c.Lines[i].Subtotal
	}
	c.TotalItems = totalItems
	c.TotalAmount = totalAmount
}
