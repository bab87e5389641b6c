package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"coldchain/backend/common/model"
	"coldchain/backend/ccsync/internal/business"
	"coldchain/backend/ccsync/internal/domains/common"
	"coldchain/backend/ccsync/internal/domains/common/job"
	"coldchain/backend/ccsync/internal/domains/common/response"
)

// AlertHandler 温度告警 Handler
type AlertHandler struct {
	ctx          context.Context
	meta         *job.Meta
	notification model.AlertNotification
	service      *business.AlertService
}

// NewAlertHandler 创建告警 Handler，解析业务数据
func NewAlertHandler(ctx context.Context, meta *job.Meta, payload interface{}, deps *common.Deps) (common.HandlerServ, error) {
	if deps == nil || deps.AlertService == nil {
		return nil, fmt.Errorf("alert service is not configured")
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}

	var n model.AlertNotification
	if err := json.Unmarshal(payloadBytes, &n); err != nil {
		return nil, fmt.Errorf("unmarshal alert failed: %w", err)
	}
	if n.ShipmentID == "" {
		n.ShipmentID = meta.ID
	}

	return &AlertHandler{
		ctx:          ctx,
		meta:         meta,
		notification: n,
		service:      deps.AlertService,
	}, nil
}

// GetProcess 转发告警到通知频道
func (h *AlertHandler) GetProcess() *response.Response {
	result := response.NewAlertResult(h.service.Topic())

	receivers, err := h.service.Forward(h.ctx, h.notification)
	result.Receivers = receivers

	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)
	return resp
}
