package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("completed"))
	assert.False(t, IsValidStatus(""))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusDelivered))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusPlaced))
	assert.False(t, IsTerminal(StatusShipped))
}

func TestCanTransition(t *testing.T) {
	t.Run("Any move between non-terminal states", func(t *testing.T) {
		assert.True(t, CanTransition(StatusPlaced, StatusAccepted))
		assert.True(t, CanTransition(StatusShipped, StatusDelivered))
		assert.True(t, CanTransition(StatusInProgress, StatusCancelled))
		// 回退也允许，管理员要能纠错
		assert.True(t, CanTransition(StatusShipped, StatusInProgress))
	})

	t.Run("Terminal states only allow idempotent self-set", func(t *testing.T) {
		assert.True(t, CanTransition(StatusDelivered, StatusDelivered))
		assert.True(t, CanTransition(StatusCancelled, StatusCancelled))
		assert.False(t, CanTransition(StatusDelivered, StatusShipped))
		assert.False(t, CanTransition(StatusCancelled, StatusPlaced))
	})

	t.Run("Unknown statuses rejected", func(t *testing.T) {
		assert.False(t, CanTransition("bogus", StatusPlaced))
		assert.False(t, CanTransition(StatusPlaced, "bogus"))
	})
}

func TestIsValidPaymentStatus(t *testing.T) {
	assert.True(t, IsValidPaymentStatus(PaymentPending))
	assert.True(t, IsValidPaymentStatus(PaymentPaid))
	assert.True(t, IsValidPaymentStatus(PaymentFailed))
	assert.False(t, IsValidPaymentStatus("refunded"))
}
