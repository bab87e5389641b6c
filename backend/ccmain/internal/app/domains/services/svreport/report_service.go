package svreport

import (
	"context"
	"strings"

	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdreport"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
)

// ReportService 报表服务，只做参数校验后转发到报表模块
type ReportService struct {
	reportModule *mdreport.ReportModule
}

// NewReportService 创建报表服务实例
func NewReportService(reportModule *mdreport.ReportModule) *ReportService {
	return &ReportService{reportModule: reportModule}
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errorx.MalformedInput(name + " is required")
	}
	return nil
}

func (s *ReportService) ShipmentsByParty(ctx context.Context, party string) ([]*etshipment.Shipment, error) {
	if err := required("party", party); err != nil {
		return nil, err
	}
	return s.reportModule.ShipmentsByParty(ctx, party)
}

func (s *ReportService) ShipmentLocations(ctx context.Context, party string) ([]*etshipment.Shipment, error) {
	if err := required("party", party); err != nil {
		return nil, err
	}
	return s.reportModule.ShipmentLocations(ctx, party)
}

func (s *ReportService) HighRiskShipments(ctx context.Context, party string) ([]*etshipment.Shipment, error) {
	return s.reportModule.HighRiskShipments(ctx, party)
}

func (s *ReportService) RecentClaims(ctx context.Context, party string) ([]*etshipment.Shipment, error) {
	return s.reportModule.RecentClaims(ctx, party)
}

func (s *ReportService) RecentShipments(ctx context.Context) ([]mdreport.RecentShipment, error) {
	return s.reportModule.RecentShipments(ctx)
}

func (s *ReportService) ClaimsOverview(ctx context.Context) ([]*etshipment.Shipment, error) {
	return s.reportModule.ClaimsOverview(ctx)
}

func (s *ReportService) RiskMap(ctx context.Context) ([]*etshipment.Shipment, error) {
	return s.reportModule.RiskMap(ctx)
}

func (s *ReportService) ShipmentMovements(ctx context.Context, shipmentID string) (*etshipment.Shipment, error) {
	if err := required("shipmentId", shipmentID); err != nil {
		return nil, err
	}
	return s.reportModule.ShipmentMovements(ctx, shipmentID)
}

func (s *ReportService) TemperatureSeries(ctx context.Context, shipmentID string) ([]mdreport.SeriesPoint, error) {
	if err := required("shipmentId", shipmentID); err != nil {
		return nil, err
	}
	return s.reportModule.TemperatureSeries(ctx, shipmentID)
}

func (s *ReportService) HumiditySeries(ctx context.Context, shipmentID string) ([]mdreport.SeriesPoint, error) {
	if err := required("shipmentId", shipmentID); err != nil {
		return nil, err
	}
	return s.reportModule.HumiditySeries(ctx, shipmentID)
}

func (s *ReportService) AuditTrail(ctx context.Context, shipmentID string) ([]*etsensor.SensorData, error) {
	if err := required("shipmentId", shipmentID); err != nil {
		return nil, err
	}
	return s.reportModule.AuditTrail(ctx, shipmentID)
}

func (s *ReportService) LatestReading(ctx context.Context, shipmentID string) (*etsensor.SensorData, error) {
	if err := required("shipmentId", shipmentID); err != nil {
		return nil, err
	}
	return s.reportModule.LatestReading(ctx, shipmentID)
}

func (s *ReportService) CountShipments(ctx context.Context, party string) (int64, error) {
	return s.reportModule.CountShipments(ctx, party)
}

func (s *ReportService) CountClaims(ctx context.Context, party string) (int64, error) {
	return s.reportModule.CountClaims(ctx, party)
}

func (s *ReportService) CountHighRisk(ctx context.Context) (int64, error) {
	return s.reportModule.CountHighRisk(ctx)
}
