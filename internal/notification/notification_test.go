package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewMessageStampsIdentity(t *testing.T) {
	msg := newMessage(KindDelay, "USB Dongle")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, KindDelay, msg.Kind)
	assert.Equal(t, "USB Dongle", msg.ProductName)
	assert.False(t, msg.SentAt.IsZero())

	// Each message gets its own identity.
	other := newMessage(KindDelay, "USB Dongle")
	assert.NotEqual(t, msg.ID, other.ID)
}

func TestLogNotifierEmitsStructuredEntries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))
	ctx := context.Background()

	n.SendDelayNotification(ctx, 10, "USB Dongle")
	n.SendOutOfStockNotification(ctx, "Grapes")
	expiry := time.Now().Add(-48 * time.Hour)
	n.SendExpirationNotification(ctx, "Milk", &expiry)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "delay_notification", entries[0].Message)
	assert.Equal(t, "out_of_stock_notification", entries[1].Message)
	assert.Equal(t, "expiration_notification", entries[2].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "USB Dongle", fields["product"])
	assert.EqualValues(t, 10, fields["lead_time_days"])
}

func TestLogNotifierNilExpiry(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	n.SendExpirationNotification(context.Background(), "Mystery", nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	_, hasExpiry := entries[0].ContextMap()["expiry_date"]
	assert.False(t, hasExpiry)
}
