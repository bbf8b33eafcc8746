package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Cart.ComputedTotalPrice Tests
// ============================================================================

func TestComputedTotalPrice_SingleItem(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{UnitPrice: 1999, Quantity: 2},
		},
	}
	assert.Equal(t, int64(3998), c.ComputedTotalPrice())
}

func TestComputedTotalPrice_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{UnitPrice: 1000, Quantity: 2},
			{UnitPrice: 500, Quantity: 3},
			{UnitPrice: 2500, Quantity: 1},
		},
	}
	// 2000 + 1500 + 2500 = 6000
	assert.Equal(t, int64(6000), c.ComputedTotalPrice())
}

func TestComputedTotalPrice_EmptyCart(t *testing.T) {
	c := &Cart{Items: []CartItem{}}
	assert.Equal(t, int64(0), c.ComputedTotalPrice())
}

func TestComputedTotalPrice_NilItems(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.ComputedTotalPrice())
}

// ============================================================================
// Cart.ComputedTotalItems Tests
// ============================================================================

func TestComputedTotalItems_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Quantity: 2},
			{Quantity: 3},
			{Quantity: 1},
		},
	}
	assert.Equal(t, 6, c.ComputedTotalItems())
}

func TestComputedTotalItems_EmptyCart(t *testing.T) {
	c := &Cart{Items: []CartItem{}}
	assert.Equal(t, 0, c.ComputedTotalItems())
}

// ============================================================================
// Cart.FindItemIndex Tests
// ============================================================================

func TestFindItemIndex_Found(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	c := &Cart{
		Items: []CartItem{
			{ProductID: p1},
			{ProductID: p2},
		},
	}
	assert.Equal(t, 0, c.FindItemIndex(p1))
	assert.Equal(t, 1, c.FindItemIndex(p2))
}

func TestFindItemIndex_NotFound(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ProductID: uuid.New()},
		},
	}
	assert.Equal(t, -1, c.FindItemIndex(uuid.New()))
}

func TestFindItemIndex_EmptyCart(t *testing.T) {
	c := &Cart{Items: []CartItem{}}
	assert.Equal(t, -1, c.FindItemIndex(uuid.New()))
}

// ============================================================================
// Cart Status Tests
// ============================================================================

func TestIsActive(t *testing.T) {
	assert.True(t, (&Cart{Status: CartStatusActive}).IsActive())
	assert.False(t, (&Cart{Status: CartStatusConverted}).IsActive())
	assert.False(t, (&Cart{Status: CartStatusAbandoned}).IsActive())
}

func TestCartItem_Subtotal(t *testing.T) {
	item := CartItem{UnitPrice: 9999, Quantity: 3}
	assert.Equal(t, int64(29997), item.Subtotal())
}
