package report

import (
	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/domains/apimodel/response"
)

// Temperature GET /shipments/:id/temperature
func (h *ReportHandler) Temperature(c *gin.Context) {
	points, err := h.reportService.TemperatureSeries(c.Request.Context(), c.Param("id"))
	respond(c, points, err, response.FromTemperatureSeries)
}

// Humidity GET /shipments/:id/humidity
func (h *ReportHandler) Humidity(c *gin.Context) {
	points, err := h.reportService.HumiditySeries(c.Request.Context(), c.Param("id"))
	respond(c, points, err, response.FromHumiditySeries)
}

// AuditTrail GET /shipments/:id/audit-trail
func (h *ReportHandler) AuditTrail(c *gin.Context) {
	facts, err := h.reportService.AuditTrail(c.Request.Context(), c.Param("id"))
	respond(c, facts, err, response.FromAuditTrail)
}

// LatestReading GET /shipments/:id/latest-reading
func (h *ReportHandler) LatestReading(c *gin.Context) {
	sd, err := h.reportService.LatestReading(c.Request.Context(), c.Param("id"))
	respond(c, sd, err, response.FromSensorData)
}
