package shipment

import (
	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/domains/apimodel/request"
	"coldchain/backend/ccmain/internal/app/domains/apimodel/response"
	"coldchain/backend/ccmain/internal/app/pkg/ginx"
)

// TransferCustody godoc
// @Summary      运单交接
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id path string true "运单号"
// @Param        request body request.TransferCustodyRequest true "交接事件"
// @Success      200 {object} ginx.Response{data=response.CustodyResponse}
// @Failure      400 {object} ginx.Response "参数错误或运单不存在"
// @Router       /shipments/{id}/custody [post]
func (h *ShipmentHandler) TransferCustody(c *gin.Context) {
	var req request.TransferCustodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	transfer := req.ToCustodyTransfer(c.Param("id"))
	shipment, err := h.shipmentService.TransferCustody(c.Request.Context(), transfer)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ginx.Success(c, response.FromCustodyTransfer(shipment, transfer))
}
