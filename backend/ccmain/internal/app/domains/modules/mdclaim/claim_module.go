package mdclaim

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"coldchain/backend/ccmain/internal/app/domains/entity/etclaim"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/repo/rpledger"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
)

// ClaimModule 保险理赔模块
type ClaimModule struct {
	ledger rpledger.Ledger
	now    etprimitive.Clock
}

// NewClaimModule 创建理赔模块
func NewClaimModule(ledger rpledger.Ledger, now etprimitive.Clock) *ClaimModule {
	if now == nil {
		now = time.Now
	}
	return &ClaimModule{ledger: ledger, now: now}
}

// ClaimRequest 理赔请求，保单号和投保金额为空时取运单上登记的值
type ClaimRequest struct {
	ShipmentID   string
	PolicyID     string
	InsuredValue decimal.Decimal
}

// FileClaim 发起理赔：更新运单理赔状态并追加理赔事实，同一事务提交
func (m *ClaimModule) FileClaim(ctx context.Context, req ClaimRequest) (*etclaim.Claim, error) {
	id := etprimitive.NormalizeID(req.ShipmentID)
	now := m.now()

	var filed *etclaim.Claim
	err := m.ledger.ExecuteInTransaction(ctx, func(tx rpledger.Tx) error {
		s, err := tx.FindShipment(id)
		if err != nil {
			return err
		}
		if s == nil {
			return errorx.ClaimSubjectNotFound(id)
		}

		policyID := req.PolicyID
		if policyID == "" {
			policyID = s.PolicyID
		}
		insuredValue := req.InsuredValue
		if insuredValue.IsZero() {
			insuredValue = s.InsuredValue
		}

		state, ok := s.FileClaim(policyID, now)
		if !ok {
			return errorx.ClaimAlreadyExists(id, state.ClaimID)
		}
		if err := tx.UpdateShipment(s); err != nil {
			return err
		}

		c := etclaim.NewClaim(s.ShipmentID, policyID, insuredValue, state)
		if err := tx.InsertClaim(c); err != nil {
			return err
		}
		filed = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filed, nil
}
