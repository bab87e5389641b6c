package domains

import (
	"coldchain/backend/common/model"
	"coldchain/backend/ccsync/internal/domains/common"
	"coldchain/backend/ccsync/internal/domains/handlers/shipment/alert"
)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]common.HandlerServProc{
	model.ActionTypeShipmentAlert: alert.NewAlertHandler,
}
