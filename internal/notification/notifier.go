package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notifier 对外发送缺货/延迟/过期通知。
// Fire-and-forget: implementations own their failure handling, the
// fulfillment rules never see an error from this port.
type Notifier interface {
	SendDelayNotification(ctx context.Context, leadTimeDays int, productName string)
	SendOutOfStockNotification(ctx context.Context, productName string)
	SendExpirationNotification(ctx context.Context, productName string, expiryDate *time.Time)
}

// Notification kinds on the wire.
const (
	KindDelay      = "delay"
	KindOutOfStock = "out_of_stock"
	KindExpiration = "expiration"
)

// Message 是发往下游渠道的通知事件。
type Message struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	ProductName  string     `json:"product_name"`
	LeadTimeDays int        `json:"lead_time_days,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	SentAt       time.Time  `json:"sent_at"`
}

// newMessage stamps identity and send time; uuid 作为全链路追踪标识。
func newMessage(kind, productName string) Message {
	return Message{
		ID:          uuid.New().String(),
		Kind:        kind,
		ProductName: productName,
		SentAt:      time.Now().UTC(),
	}
}
