package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coldchain/backend/ccmain/internal/app/pkg/logger"
	"coldchain/backend/ccmain/internal/app/pkg/metrics"
	"coldchain/backend/ccmain/internal/app/server/handlers/claim"
	"coldchain/backend/ccmain/internal/app/server/handlers/report"
	"coldchain/backend/ccmain/internal/app/server/handlers/retail"
	"coldchain/backend/ccmain/internal/app/server/handlers/shipment"
	"coldchain/backend/ccmain/internal/app/server/middlewares"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Shipment *shipment.ShipmentHandler
	Retail   *retail.RetailHandler
	Claim    *claim.ClaimHandler
	Report   *report.ReportHandler
}

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(h Handlers, log logger.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.Trace())
	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.Metrics(m))
	r.Use(middlewares.ErrorHandler(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "ccmain",
			"message": "Service is running",
		})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	{
		shipments := v1.Group("/shipments")
		{
			shipments.POST("", h.Shipment.Create)
			shipments.GET("/:id", h.Shipment.Get)
			shipments.POST("/:id/custody", h.Shipment.TransferCustody)
			shipments.POST("/:id/telemetry", h.Shipment.RecordTelemetry)
			shipments.POST("/:id/telemetry/simulated", h.Shipment.RecordTelemetrySimulated)
			shipments.GET("/:id/provenance", h.Retail.Provenance)
			shipments.GET("/:id/movements", h.Report.Movements)
			shipments.GET("/:id/audit-trail", h.Report.AuditTrail)
			shipments.GET("/:id/temperature", h.Report.Temperature)
			shipments.GET("/:id/humidity", h.Report.Humidity)
			shipments.GET("/:id/latest-reading", h.Report.LatestReading)
		}

		v1.POST("/retail-shipments", h.Retail.Create)
		v1.POST("/claims", h.Claim.Create)

		reports := v1.Group("/reports")
		{
			reports.GET("/recent-shipments", h.Report.RecentShipments)
			reports.GET("/high-risk", h.Report.HighRisk)
			reports.GET("/recent-claims", h.Report.RecentClaims)
			reports.GET("/claims", h.Report.ClaimsOverview)
			reports.GET("/risk-map", h.Report.RiskMap)
			reports.GET("/counts/shipments", h.Report.CountShipments)
			reports.GET("/counts/claims", h.Report.CountClaims)
			reports.GET("/counts/high-risk", h.Report.CountHighRisk)
		}

		parties := v1.Group("/parties/:party")
		{
			parties.GET("/shipments", h.Report.ShipmentsByParty)
			parties.GET("/locations", h.Report.ShipmentLocations)
		}
	}

	return r
}
