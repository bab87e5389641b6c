package shipment

import (
	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/domains/apimodel/request"
	"coldchain/backend/ccmain/internal/app/domains/apimodel/response"
	"coldchain/backend/ccmain/internal/app/pkg/ginx"
)

// RecordTelemetry godoc
// @Summary      传感器上报（主运单）
// @Description  只累计温度偏离，运单位置保持不变
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        id path string true "运单号"
// @Param        request body request.TelemetryRequest true "读数"
// @Success      200 {object} ginx.Response{data=response.TelemetryResponse}
// @Failure      400 {object} ginx.Response
// @Failure      500 {object} ginx.Response "账本冲突重试耗尽"
// @Router       /shipments/{id}/telemetry [post]
func (h *ShipmentHandler) RecordTelemetry(c *gin.Context) {
	var req request.TelemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	result, err := h.shipmentService.RecordTelemetry(c.Request.Context(), req.ToReading(c.Param("id")))
	if err != nil {
		_ = c.Error(err)
		return
	}

	ginx.Success(c, response.FromTelemetryResult(result))
}

// RecordTelemetrySimulated godoc
// @Summary      传感器上报（完整路径）
// @Description  RS 前缀的运单号路由到零售子运单，两个计数器和位置都会更新
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        id path string true "运单号或零售子运单号"
// @Param        request body request.TelemetryRequest true "读数"
// @Success      200 {object} ginx.Response{data=response.TelemetryResponse}
// @Failure      400 {object} ginx.Response
// @Failure      500 {object} ginx.Response "账本冲突重试耗尽"
// @Router       /shipments/{id}/telemetry/simulated [post]
func (h *ShipmentHandler) RecordTelemetrySimulated(c *gin.Context) {
	var req request.TelemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	result, err := h.shipmentService.RecordTelemetrySimulated(c.Request.Context(), req.ToReading(c.Param("id")))
	if err != nil {
		_ = c.Error(err)
		return
	}

	ginx.Success(c, response.FromTelemetryResult(result))
}
