package shipment

import (
	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/domains/apimodel/request"
	"coldchain/backend/ccmain/internal/app/domains/apimodel/response"
	"coldchain/backend/ccmain/internal/app/pkg/ginx"
)

// Create godoc
// @Summary      创建运单
// @Description  登记新的主运单，批次号为账本文档号
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        request body request.CreateShipmentRequest true "运单信息"
// @Success      200 {object} ginx.Response{data=response.ShipmentResponse} "创建成功"
// @Failure      400 {object} ginx.Response "参数错误或运单已存在"
// @Failure      500 {object} ginx.Response "服务器错误"
// @Router       /shipments [post]
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req request.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	shipment, err := h.shipmentService.CreateShipment(c.Request.Context(), req.ToShipmentParams())
	if err != nil {
		_ = c.Error(err)
		return
	}

	ginx.Success(c, response.FromShipmentEntity(shipment))
}
