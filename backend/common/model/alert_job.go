package model

// ShipmentAlertJob 温度告警任务消息（标准化）
// 用于 ccmain → ccsync 的消息传递
type ShipmentAlertJob struct {
	Payload ShipmentAlertPayload `json:"payload"`
}

// ShipmentAlertPayload Job 负载
type ShipmentAlertPayload struct {
	Data ShipmentAlertData `json:"data"`
}

// ShipmentAlertData Job 数据层
type ShipmentAlertData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID（固定为 "0"）
	ActionType string `json:"action_type"` // 动作类型，固定值 "shipment_alert"
	ID         string `json:"id"`          // 运单 ID

	// 业务数据
	Data AlertNotification `json:"data"`
}

// ActionTypeShipmentAlert 温度告警动作类型
const ActionTypeShipmentAlert = "shipment_alert"

// AlertNotification 发布到通知频道的告警内容
type AlertNotification struct {
	ShipmentID  string  `json:"shipmentID"`
	Temperature float64 `json:"temperature"`
	Hash        string  `json:"hash"`
	DeviceID    string  `json:"deviceId"`
	Kind        string  `json:"kind"`
	EventDate   string  `json:"eventDate"`
}
