package svretail

import (
	"context"
	"strings"

	"coldchain/backend/ccmain/internal/app/domains/entity/etretail"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdretail"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
)

// RetailService 零售子运单服务
type RetailService struct {
	retailModule *mdretail.RetailModule
	logger       logger.Logger
}

// NewRetailService 创建零售服务实例
func NewRetailService(retailModule *mdretail.RetailModule, log logger.Logger) *RetailService {
	return &RetailService{retailModule: retailModule, logger: log}
}

// CreateRetailLeg 创建零售子运单
// 1. 校验子运单号与主运单号
// 2. 事务内确认主运单存在并落库
func (s *RetailService) CreateRetailLeg(ctx context.Context, p etretail.NewRetailShipmentParams) (*etretail.RetailShipment, error) {
	if strings.TrimSpace(p.RetailShipmentID) == "" {
		return nil, errorx.MalformedInput("retailShipmentId is required")
	}
	if strings.TrimSpace(p.MasterShipmentID) == "" {
		return nil, errorx.MalformedInput("shipmentId is required")
	}

	leg, err := s.retailModule.CreateRetailLeg(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "retail shipment created",
		"retail_shipment_id", leg.RetailShipmentID,
		"master_shipment_id", leg.MasterShipmentID,
		"retail_quantity", leg.RetailQuantity)
	return leg, nil
}

// GetTrackingProvenance 查询溯源信息
func (s *RetailService) GetTrackingProvenance(ctx context.Context, shipmentID string) (*etretail.Provenance, error) {
	if strings.TrimSpace(shipmentID) == "" {
		return nil, errorx.MalformedInput("shipmentId is required")
	}
	return s.retailModule.GetTrackingProvenance(ctx, shipmentID)
}
