package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaNotifier 将通知事件写入 Kafka。
// Writer 可靠性参数：
// - Hash + Key: 相同商品尽量落到同一分区，保证单品通知有序。
// - RequireAll: 等待 ISR 副本确认，降低消息丢失风险。
// - MaxAttempts/Timeout: 控制重试与超时边界。
type KafkaNotifier struct {
	w      *kafka.Writer
	logger *zap.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  5,
			WriteTimeout: 5 * time.Second,
			ReadTimeout:  5 * time.Second,
			BatchTimeout: 50 * time.Millisecond,
		},
		logger: logger,
	}
}

// Close 释放 writer 资源。
func (n *KafkaNotifier) Close() error { return n.w.Close() }

func (n *KafkaNotifier) SendDelayNotification(ctx context.Context, leadTimeDays int, productName string) {
	msg := newMessage(KindDelay, productName)
	msg.LeadTimeDays = leadTimeDays
	n.publish(ctx, msg)
}

func (n *KafkaNotifier) SendOutOfStockNotification(ctx context.Context, productName string) {
	n.publish(ctx, newMessage(KindOutOfStock, productName))
}

func (n *KafkaNotifier) SendExpirationNotification(ctx context.Context, productName string, expiryDate *time.Time) {
	msg := newMessage(KindExpiration, productName)
	msg.ExpiryDate = expiryDate
	n.publish(ctx, msg)
}

// publish 同步写入一条通知，失败只记日志，不向调用方冒泡。
func (n *KafkaNotifier) publish(ctx context.Context, msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("notification_marshal_failed",
			zap.String("kind", msg.Kind),
			zap.Error(err),
		)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = n.w.WriteMessages(pubCtx, kafka.Message{
		Key:   []byte(msg.ProductName),
		Value: b,
	})
	if err != nil {
		n.logger.Error("notification_publish_failed",
			zap.String("kind", msg.Kind),
			zap.String("product", msg.ProductName),
			zap.Error(err),
		)
	}
}
