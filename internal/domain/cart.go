package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart status constants.
const (
	CartStatusActive    = "active"
	CartStatusConverted = "converted"
	CartStatusAbandoned = "abandoned"
)

// Cart represents a shopping cart. TotalItems and TotalPrice are stored
// aggregates maintained transactionally with every item mutation, so they
// always equal the sums over Items.
type Cart struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	Status     string     `json:"status"`
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice int64      `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem is a product line in a cart. UnitPrice is a snapshot of the
// product price taken when the line was last added, in cents.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal returns the line total in cents.
func (i *CartItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// ComputedTotalPrice sums the line subtotals. Used by tests and consistency
// checks; request paths read the stored aggregate instead.
func (c *Cart) ComputedTotalPrice() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].Subtotal()
	}
	return total
}

// ComputedTotalItems sums the line quantities.
func (c *Cart) ComputedTotalItems() int {
	var count int
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// FindItemIndex returns the index of the line for the given product, or -1.
func (c *Cart) FindItemIndex(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// IsActive reports whether the cart can still be mutated or converted.
func (c *Cart) IsActive() bool {
	return c.Status == CartStatusActive
}
