package job

// Job 标准 Job 结构，与 common/model.ShipmentAlertJob 的外层一致
type Job struct {
	Payload *JobPayload `json:"payload"`
}

// JobPayload Job 负载
type JobPayload struct {
	Data *JobPayloadData `json:"data"`
}

// JobPayloadData Job 数据
type JobPayloadData struct {
	RequestID  string `json:"request_id"`  // 请求 ID（TraceID）
	OrgID      string `json:"org_id"`
	ActionType string `json:"action_type"` // 路由键
	ID         string `json:"id"`          // 运单号

	// 业务数据，由各 Handler 自行解析
	Data interface{} `json:"data"`
}

// Meta 元数据
type Meta struct {
	RequestID  string `json:"request_id"`
	OrgID      string `json:"org_id"`
	ActionType string `json:"action_type"`
	ID         string `json:"id"`
}
