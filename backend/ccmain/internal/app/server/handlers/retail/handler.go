package retail

import (
	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/domains/apimodel/request"
	"coldchain/backend/ccmain/internal/app/domains/apimodel/response"
	"coldchain/backend/ccmain/internal/app/domains/services/svretail"
	"coldchain/backend/ccmain/internal/app/pkg/ginx"
)

// RetailHandler 零售子运单 HTTP 处理器
type RetailHandler struct {
	retailService *svretail.RetailService
}

// NewRetailHandler 创建零售处理器实例
func NewRetailHandler(retailService *svretail.RetailService) *RetailHandler {
	return &RetailHandler{retailService: retailService}
}

// Create godoc
// @Summary      创建零售子运单
// @Tags         retail
// @Accept       json
// @Produce      json
// @Param        request body request.CreateRetailShipmentRequest true "子运单信息"
// @Success      200 {object} ginx.Response{data=response.RetailShipmentResponse}
// @Failure      400 {object} ginx.Response "参数错误、子运单已存在或主运单不存在"
// @Router       /retail-shipments [post]
func (h *RetailHandler) Create(c *gin.Context) {
	var req request.CreateRetailShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	leg, err := h.retailService.CreateRetailLeg(c.Request.Context(), req.ToRetailParams())
	if err != nil {
		_ = c.Error(err)
		return
	}

	ginx.Success(c, response.FromRetailEntity(leg))
}

// Provenance godoc
// @Summary      运单溯源
// @Description  源头运单摘要 + 全部零售子运单（按发货时间升序）
// @Tags         retail
// @Produce      json
// @Param        id path string true "主运单号"
// @Success      200 {object} ginx.Response{data=response.ProvenanceResponse}
// @Failure      400 {object} ginx.Response "运单不存在"
// @Router       /shipments/{id}/provenance [get]
func (h *RetailHandler) Provenance(c *gin.Context) {
	p, err := h.retailService.GetTrackingProvenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	ginx.Success(c, response.FromProvenance(p))
}
