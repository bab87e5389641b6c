package shipment

import (
	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/domains/apimodel/response"
	"coldchain/backend/ccmain/internal/app/pkg/ginx"
)

// Get godoc
// @Summary      获取运单详情
// @Tags         shipments
// @Produce      json
// @Param        id path string true "运单号（大小写不敏感）"
// @Success      200 {object} ginx.Response{data=response.ShipmentResponse} "查询成功"
// @Failure      400 {object} ginx.Response "运单不存在"
// @Router       /shipments/{id} [get]
func (h *ShipmentHandler) Get(c *gin.Context) {
	shipment, err := h.shipmentService.GetShipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	ginx.Success(c, response.FromShipmentEntity(shipment))
}
