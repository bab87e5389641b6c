package response

import (
	"coldchain/backend/ccsync/internal/domains/common/job"
)

const (
	AlertStatusForwarded = "FORWARDED"
	AlertStatusFailed    = "FAILED"
)

// AlertResult 告警转发结果（实现 ResultI 接口）
type AlertResult struct {
	ShipmentID string `json:"shipment_id"`
	Status     string `json:"status"`
	Topic      string `json:"topic"`
	Receivers  int64  `json:"receivers"`
}

// NewAlertResult 创建告警转发结果
func NewAlertResult(topic string) *AlertResult {
	return &AlertResult{Topic: topic}
}

// Set 实现 ResultI 接口
func (r *AlertResult) Set(meta *job.Meta, err error) {
	r.ShipmentID = meta.ID
	if err != nil {
		r.Status = AlertStatusFailed
		return
	}
	r.Status = AlertStatusForwarded
}

// GetStatus 实现 ResultI 接口
func (r *AlertResult) GetStatus() string {
	return r.Status
}
