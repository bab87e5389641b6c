package report

import (
	"github.com/gin-gonic/gin"

	"coldchain/backend/ccmain/internal/app/domains/apimodel/response"
)

// ShipmentsByParty GET /parties/:party/shipments
func (h *ReportHandler) ShipmentsByParty(c *gin.Context) {
	rows, err := h.reportService.ShipmentsByParty(c.Request.Context(), c.Param("party"))
	respond(c, rows, err, response.FromShipmentRows)
}

// ShipmentLocations GET /parties/:party/locations
func (h *ReportHandler) ShipmentLocations(c *gin.Context) {
	rows, err := h.reportService.ShipmentLocations(c.Request.Context(), c.Param("party"))
	respond(c, rows, err, response.FromShipmentRows)
}

// HighRisk GET /reports/high-risk?party=
func (h *ReportHandler) HighRisk(c *gin.Context) {
	rows, err := h.reportService.HighRiskShipments(c.Request.Context(), c.Query("party"))
	respond(c, rows, err, response.FromShipmentRows)
}

// RecentClaims GET /reports/recent-claims?party=
func (h *ReportHandler) RecentClaims(c *gin.Context) {
	rows, err := h.reportService.RecentClaims(c.Request.Context(), c.Query("party"))
	respond(c, rows, err, response.FromShipmentRows)
}

// RecentShipments GET /reports/recent-shipments
func (h *ReportHandler) RecentShipments(c *gin.Context) {
	rows, err := h.reportService.RecentShipments(c.Request.Context())
	respond(c, rows, err, response.FromRecentShipments)
}

// ClaimsOverview GET /reports/claims
func (h *ReportHandler) ClaimsOverview(c *gin.Context) {
	rows, err := h.reportService.ClaimsOverview(c.Request.Context())
	respond(c, rows, err, response.FromShipmentRows)
}

// RiskMap GET /reports/risk-map
func (h *ReportHandler) RiskMap(c *gin.Context) {
	rows, err := h.reportService.RiskMap(c.Request.Context())
	respond(c, rows, err, response.FromRiskRows)
}

// Movements GET /shipments/:id/movements
func (h *ReportHandler) Movements(c *gin.Context) {
	s, err := h.reportService.ShipmentMovements(c.Request.Context(), c.Param("id"))
	respond(c, s, err, response.FromMovements)
}

// CountShipments GET /reports/counts/shipments?party=
func (h *ReportHandler) CountShipments(c *gin.Context) {
	n, err := h.reportService.CountShipments(c.Request.Context(), c.Query("party"))
	count(c, n, err)
}

// CountClaims GET /reports/counts/claims?party=
func (h *ReportHandler) CountClaims(c *gin.Context) {
	n, err := h.reportService.CountClaims(c.Request.Context(), c.Query("party"))
	count(c, n, err)
}

// CountHighRisk GET /reports/counts/high-risk
func (h *ReportHandler) CountHighRisk(c *gin.Context) {
	n, err := h.reportService.CountHighRisk(c.Request.Context())
	count(c, n, err)
}
