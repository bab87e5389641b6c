package claim

import (
	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/domains/apimodel/request"
	"coldchain/backend/ccmain/internal/app/domains/apimodel/response"
	"coldchain/backend/ccmain/internal/app/domains/services/svclaim"
	"coldchain/backend/ccmain/internal/app/pkg/ginx"
)

// ClaimHandler 理赔 HTTP 处理器
type ClaimHandler struct {
	claimService *svclaim.ClaimService
}

// NewClaimHandler 创建理赔处理器实例
func NewClaimHandler(claimService *svclaim.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// Create godoc
// @Summary      发起理赔
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        request body request.FileClaimRequest true "理赔信息"
// @Success      200 {object} ginx.Response{data=response.ClaimResponse}
// @Failure      400 {object} ginx.Response "运单不存在或理赔已在处理中"
// @Router       /claims [post]
func (h *ClaimHandler) Create(c *gin.Context) {
	var req request.FileClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	claim, err := h.claimService.FileClaim(c.Request.Context(), req.ToClaimRequest())
	if err != nil {
		_ = c.Error(err)
		return
	}

	ginx.Success(c, response.FromClaimEntity(claim, svclaim.ClaimResponse))
}
