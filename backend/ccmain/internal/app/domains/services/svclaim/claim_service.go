package svclaim

import (
	"context"
	"strings"

	"coldchain/backend/ccmain/internal/app/domains/entity/etclaim"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdclaim"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
)

// ClaimResponse 理赔发起成功后的固定回执
const ClaimResponse = "New claim request initiated"

// ClaimService 理赔服务
type ClaimService struct {
	claimModule *mdclaim.ClaimModule
	logger      logger.Logger
}

// NewClaimService 创建理赔服务实例
func NewClaimService(claimModule *mdclaim.ClaimModule, log logger.Logger) *ClaimService {
	return &ClaimService{claimModule: claimModule, logger: log}
}

// FileClaim 发起理赔
func (s *ClaimService) FileClaim(ctx context.Context, req mdclaim.ClaimRequest) (*etclaim.Claim, error) {
	if strings.TrimSpace(req.ShipmentID) == "" {
		return nil, errorx.MalformedInput("shipmentId is required")
	}
	if req.InsuredValue.IsNegative() {
		return nil, errorx.MalformedInput("insuredValue cannot be negative")
	}

	claim, err := s.claimModule.FileClaim(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "claim filed",
		"shipment_id", claim.ShipmentID,
		"claim_id", claim.ClaimID,
		"insured_value", claim.InsuredValue.String())
	return claim, nil
}
