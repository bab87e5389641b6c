package etclaim

import (
	"time"

	"github.com/shopspring/decimal"

	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
)

// Claim 理赔事实（只追加）
type Claim struct {
	ShipmentID   string
	PolicyID     string
	ClaimID      string
	Status       etshipment.ClaimStatus
	RequestDate  time.Time
	InsuredValue decimal.Decimal
	DocumentID   string
}

// NewClaim 根据运单上新发起的理赔状态构造理赔事实
func NewClaim(shipmentID, policyID string, insuredValue decimal.Decimal, state etshipment.ClaimState) *Claim {
	return &Claim{
		ShipmentID:   shipmentID,
		PolicyID:     policyID,
		ClaimID:      state.ClaimID,
		Status:       state.Status,
		RequestDate:  state.RequestDate,
		InsuredValue: insuredValue,
	}
}
