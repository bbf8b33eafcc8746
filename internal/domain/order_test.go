package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Order Status Transition Tests
// ============================================================================

func TestCanTransitionTo_PendingToProcessing(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	assert.True(t, o.CanTransitionTo(OrderStatusProcessing))
}

func TestCanTransitionTo_PendingToCancelled(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	assert.True(t, o.CanTransitionTo(OrderStatusCancelled))
}

func TestCanTransitionTo_PendingToDelivered(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	assert.False(t, o.CanTransitionTo(OrderStatusDelivered))
}

func TestCanTransitionTo_ShippedToDelivered(t *testing.T) {
	o := &Order{Status: OrderStatusShipped}
	assert.True(t, o.CanTransitionTo(OrderStatusDelivered))
}

func TestCanTransitionTo_ShippedCannotCancel(t *testing.T) {
	o := &Order{Status: OrderStatusShipped}
	assert.False(t, o.CanTransitionTo(OrderStatusCancelled))
}

func TestCanTransitionTo_TerminalStates(t *testing.T) {
	for _, status := range []string{OrderStatusDelivered, OrderStatusCancelled} {
		o := &Order{Status: status}
		for _, target := range ValidOrderStatuses() {
			assert.False(t, o.CanTransitionTo(target), "from %s to %s", status, target)
		}
	}
}

func TestCanTransitionTo_UnknownStatus(t *testing.T) {
	o := &Order{Status: "bogus"}
	assert.False(t, o.CanTransitionTo(OrderStatusProcessing))
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range ValidOrderStatuses() {
		assert.True(t, IsValidOrderStatus(s))
	}
	assert.False(t, IsValidOrderStatus("refunded"))
	assert.False(t, IsValidOrderStatus(""))
}
