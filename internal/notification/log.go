package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LogNotifier 在未配置 Kafka 时把通知落为结构化日志，便于本地开发。
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendDelayNotification(ctx context.Context, leadTimeDays int, productName string) {
	_ = ctx
	n.logger.Info("delay_notification",
		zap.String("product", productName),
		zap.Int("lead_time_days", leadTimeDays),
	)
}

func (n *LogNotifier) SendOutOfStockNotification(ctx context.Context, productName string) {
	_ = ctx
	n.logger.Info("out_of_stock_notification",
		zap.String("product", productName),
	)
}

func (n *LogNotifier) SendExpirationNotification(ctx context.Context, productName string, expiryDate *time.Time) {
	_ = ctx
	fields := []zap.Field{zap.String("product", productName)}
	if expiryDate != nil {
		fields = append(fields, zap.Time("expiry_date", *expiryDate))
	}
	n.logger.Info("expiration_notification", fields...)
}
