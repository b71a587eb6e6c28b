package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"Pending", "Scheduled", "InTransit", "Delivered", "Cancelled"} {
		status, ok := ParseOrderStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, OrderStatus(valid), status)
	}

	for _, invalid := range []string{"", "pending", "Shipped"} {
		_, ok := ParseOrderStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	for _, valid := range []string{"Unassigned", "Assigned", "EnRoute", "AwaitingConfirmation", "Confirmed"} {
		status, ok := ParseDeliveryStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, DeliveryStatus(valid), status)
	}

	for _, invalid := range []string{"", "enroute", "Done"} {
		_, ok := ParseDeliveryStatus(invalid)
		assert.False(t, ok, invalid)
	}
}
