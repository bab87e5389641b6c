package svshipment

import (
	"context"
	"strings"
	"sync"
	"time"

	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdalert"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdshipment"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
	"coldchain/backend/ccmain/internal/app/pkg/metrics"
)

// alertPublishTimeout 单次告警发布的超时时间
const alertPublishTimeout = 5 * time.Second

// ShipmentService 运单服务，负责运单业务编排与告警发布
type ShipmentService struct {
	shipmentModule *mdshipment.ShipmentModule
	publisher      mdalert.Publisher
	notifyMode     string
	logger         logger.Logger
	metrics        *metrics.Metrics

	publishTimeout time.Duration
	inflight       sync.WaitGroup
}

// NewShipmentService 创建运单服务实例
func NewShipmentService(shipmentModule *mdshipment.ShipmentModule, publisher mdalert.Publisher, notifyMode string,
	log logger.Logger, m *metrics.Metrics) *ShipmentService {
	return &ShipmentService{
		shipmentModule: shipmentModule,
		publisher:      publisher,
		notifyMode:     notifyMode,
		logger:         log,
		metrics:        m,
		publishTimeout: alertPublishTimeout,
	}
}

// Wait 等待已提交上报的告警发布完成，停机时调用
func (s *ShipmentService) Wait() {
	s.inflight.Wait()
}

// CreateShipment 创建运单
// 1. 校验运单号
// 2. 事务内查重、落库并写入批次号
func (s *ShipmentService) CreateShipment(ctx context.Context, p etshipment.NewShipmentParams) (*etshipment.Shipment, error) {
	if strings.TrimSpace(p.ShipmentID) == "" {
		return nil, errorx.MalformedInput("shipmentId is required")
	}

	shipment, err := s.shipmentModule.CreateShipment(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "shipment created",
		"shipment_id", shipment.ShipmentID,
		"batch_id", shipment.BatchID,
		"manufacturer", shipment.Manufacturer)
	return shipment, nil
}

// GetShipment 查询运单
func (s *ShipmentService) GetShipment(ctx context.Context, shipmentID string) (*etshipment.Shipment, error) {
	if strings.TrimSpace(shipmentID) == "" {
		return nil, errorx.MalformedInput("shipmentId is required")
	}
	return s.shipmentModule.GetShipment(ctx, shipmentID)
}

// TransferCustody 交接运单
func (s *ShipmentService) TransferCustody(ctx context.Context, t mdshipment.CustodyTransfer) (*etshipment.Shipment, error) {
	if strings.TrimSpace(t.ShipmentID) == "" {
		return nil, errorx.MalformedInput("shipmentId is required")
	}

	shipment, err := s.shipmentModule.TransferCustody(ctx, t)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "custody transferred",
		"shipment_id", shipment.ShipmentID,
		"current_role", shipment.CurrentRole,
		"next_role", t.NextRole)
	return shipment, nil
}

// RecordTelemetry 普通传感器上报
// 1. 事务内评估风险并写入传感器事实
// 2. 提交后异步发布告警，发布失败只记录日志
func (s *ShipmentService) RecordTelemetry(ctx context.Context, r mdshipment.TelemetryReading) (*mdshipment.TelemetryResult, error) {
	if strings.TrimSpace(r.ShipmentID) == "" {
		return nil, errorx.MalformedInput("shipmentId is required")
	}

	result, err := s.shipmentModule.RecordTelemetry(ctx, r)
	if err != nil {
		return nil, err
	}
	s.afterTelemetry(ctx, result)
	return result, nil
}

// RecordTelemetrySimulated 完整传感器上报（主运单或零售子运单）
func (s *ShipmentService) RecordTelemetrySimulated(ctx context.Context, r mdshipment.TelemetryReading) (*mdshipment.TelemetryResult, error) {
	if strings.TrimSpace(r.ShipmentID) == "" {
		return nil, errorx.MalformedInput("shipmentId is required")
	}

	result, err := s.shipmentModule.RecordTelemetrySimulated(ctx, r)
	if err != nil {
		return nil, err
	}
	s.afterTelemetry(ctx, result)
	return result, nil
}

func (s *ShipmentService) afterTelemetry(ctx context.Context, result *mdshipment.TelemetryResult) {
	s.logger.DebugContext(ctx, "telemetry recorded",
		"shipment_id", result.ShipmentID,
		"kind", result.Kind.String(),
		"device_id", result.DeviceID,
		"temperature", result.Temperature,
		"temperature_excursion", result.Counters.TemperatureExcursion)

	if result.Alert == nil {
		return
	}

	// 事务已提交，异步发布，请求取消不影响发布，发布失败不影响上报结果
	alert := *result.Alert
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		s.publish(pubCtx, alert)
	}()
}

func (s *ShipmentService) publish(ctx context.Context, alert mdalert.Alert) {
	if err := s.publisher.Publish(ctx, alert); err != nil {
		s.metrics.AlertsFailedTotal.WithLabelValues(s.notifyMode).Inc()
		s.logger.WarnContext(ctx, "publish temperature alert failed",
			"shipment_id", alert.ShipmentID,
			"mode", s.notifyMode,
			"error", err)
		return
	}
	s.metrics.AlertsPublishedTotal.WithLabelValues(s.notifyMode).Inc()
}
