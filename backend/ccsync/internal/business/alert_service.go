package business

import (
	"context"
	"encoding/json"
	"fmt"

	"coldchain/backend/common/model"
	"coldchain/backend/ccsync/pkg/errorutil"
	"coldchain/backend/ccsync/pkg/logger"
)

// Notifier 通知频道（Redis Pub/Sub）
type Notifier interface {
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}

// AlertService 温度告警转发服务：把 ccmain 入队的告警发布到通知频道
type AlertService struct {
	notifier Notifier
	topic    string
	logger   logger.Logger
}

// NewAlertService 创建告警转发服务
func NewAlertService(notifier Notifier, topic string, log logger.Logger) *AlertService {
	return &AlertService{
		notifier: notifier,
		topic:    topic,
		logger:   log,
	}
}

// Topic 通知频道名称
func (s *AlertService) Topic() string {
	return s.topic
}

// Forward 发布告警，返回收到消息的订阅者数量
// 格式错误不可重试；频道不可用可重试，消息 TTR 后重投
func (s *AlertService) Forward(ctx context.Context, n model.AlertNotification) (int64, error) {
	if n.ShipmentID == "" {
		return 0, errorutil.NonRetriable("shipmentID is required")
	}
	if n.Hash == "" {
		return 0, errorutil.NonRetriable("hash is required")
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return 0, errorutil.NonRetriableWithDetails("marshal notification failed", err.Error())
	}

	receivers, err := s.notifier.Publish(ctx, s.topic, payload)
	if err != nil {
		return 0, errorutil.RetriableWithDetails(fmt.Sprintf("publish alert for %s failed", n.ShipmentID), err.Error())
	}

	s.logger.Infof(ctx, "[AlertService] alert forwarded: shipment=%s, temperature=%.2f, receivers=%d",
		n.ShipmentID, n.Temperature, receivers)
	return receivers, nil
}
