package shipment

import "coldchain/backend/ccmain/internal/app/domains/services/svshipment"

// ShipmentHandler 运单 HTTP 处理器
type ShipmentHandler struct {
	shipmentService *svshipment.ShipmentService
}

// NewShipmentHandler 创建运单处理器实例
func NewShipmentHandler(shipmentService *svshipment.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
	}
}
