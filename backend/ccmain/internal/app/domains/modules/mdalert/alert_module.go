package mdalert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coldchain/backend/common/model"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
)

// Alert 温度告警（事务提交后发布）
type Alert struct {
	ShipmentID  string
	Kind        etshipment.Kind
	DeviceID    string
	Temperature float64
	TempHash    string
	EventDate   time.Time
}

// Publisher 告警发布接口
type Publisher interface {
	Publish(ctx context.Context, alert Alert) error
}

// JobQueue 告警外发队列（lmstfy）
type JobQueue interface {
	Publish(queue string, data interface{}, ttl time.Duration) (string, error)
}

// Topic 告警通知频道（Redis Pub/Sub）
type Topic interface {
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}

func notificationOf(a Alert) model.AlertNotification {
	return model.AlertNotification{
		ShipmentID:  a.ShipmentID,
		Temperature: a.Temperature,
		Hash:        a.TempHash,
		DeviceID:    a.DeviceID,
		Kind:        a.Kind.String(),
		EventDate:   etprimitive.FormatISO(a.EventDate),
	}
}

// OutboxPublisher 告警写入 lmstfy 队列，由 ccsync 转发到通知频道
type OutboxPublisher struct {
	queue     JobQueue
	queueName string
	ttl       time.Duration
}

// NewOutboxPublisher 创建队列发布器
func NewOutboxPublisher(queue JobQueue, queueName string, ttl time.Duration) *OutboxPublisher {
	return &OutboxPublisher{queue: queue, queueName: queueName, ttl: ttl}
}

// Publish 构造标准化任务消息并入队
func (p *OutboxPublisher) Publish(ctx context.Context, a Alert) error {
	requestID := logger.TraceID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	job := model.ShipmentAlertJob{
		Payload: model.ShipmentAlertPayload{
			Data: model.ShipmentAlertData{
				RequestID:  requestID,
				OrgID:      "0",
				ActionType: model.ActionTypeShipmentAlert,
				ID:         a.ShipmentID,
				Data:       notificationOf(a),
			},
		},
	}

	if _, err := p.queue.Publish(p.queueName, job, p.ttl); err != nil {
		return fmt.Errorf("enqueue alert for %s: %w", a.ShipmentID, err)
	}
	return nil
}

// DirectPublisher 告警直接发布到 Redis 频道
type DirectPublisher struct {
	topic   Topic
	channel string
}

// NewDirectPublisher 创建频道发布器
func NewDirectPublisher(topic Topic, channel string) *DirectPublisher {
	return &DirectPublisher{topic: topic, channel: channel}
}

func (p *DirectPublisher) Publish(ctx context.Context, a Alert) error {
	payload, err := json.Marshal(notificationOf(a))
	if err != nil {
		return fmt.Errorf("marshal alert failed: %w", err)
	}
	if _, err := p.topic.Publish(ctx, p.channel, payload); err != nil {
		return fmt.Errorf("publish alert for %s: %w", a.ShipmentID, err)
	}
	return nil
}

// LogPublisher 仅记录日志
type LogPublisher struct {
	logger logger.Logger
}

// NewLogPublisher 创建日志发布器
func NewLogPublisher(log logger.Logger) *LogPublisher {
	return &LogPublisher{logger: log}
}

func (p *LogPublisher) Publish(ctx context.Context, a Alert) error {
	p.logger.InfoContext(ctx, "temperature alert",
		"shipment_id", a.ShipmentID,
		"temperature", a.Temperature,
		"hash", a.TempHash,
	)
	return nil
}
