package report

import (
	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/domains/apimodel/response"
	"coldchain/backend/ccmain/internal/app/domains/services/svreport"
	"coldchain/backend/ccmain/internal/app/pkg/ginx"
)

// ReportHandler 报表 HTTP 处理器，查询结果为空时返回 ReportingNotFound
type ReportHandler struct {
	reportService *svreport.ReportService
}

// NewReportHandler 创建报表处理器实例
func NewReportHandler(reportService *svreport.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// respond 统一输出：出错交给错误中间件，否则转换后返回
func respond[T any, R any](c *gin.Context, rows T, err error, convert func(T) R) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	ginx.Success(c, convert(rows))
}

func count(c *gin.Context, n int64, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	ginx.Success(c, response.CountResponse{Count: n})
}
