package mdretail

import (
	"context"
	"sort"
	"time"

	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etretail"
	"coldchain/backend/ccmain/internal/app/domains/repo/rpledger"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
)

// RetailModule 零售子运单与溯源模块
type RetailModule struct {
	ledger     rpledger.Ledger
	now        etprimitive.Clock
	defaultGeo etgeo.Location
}

// NewRetailModule 创建零售模块
func NewRetailModule(ledger rpledger.Ledger, now etprimitive.Clock, defaultLocation string) *RetailModule {
	if now == nil {
		now = time.Now
	}
	return &RetailModule{
		ledger:     ledger,
		now:        now,
		defaultGeo: etgeo.Default(defaultLocation),
	}
}

// CreateRetailLeg 从主运单派生零售子运单，主运单必须已存在
func (m *RetailModule) CreateRetailLeg(ctx context.Context, p etretail.NewRetailShipmentParams) (*etretail.RetailShipment, error) {
	p.DefaultGeo = m.defaultGeo
	now := m.now()
	if _, err := etretail.NewRetailShipment(p, now); err != nil {
		return nil, errorx.MalformedInput(err.Error())
	}

	var created *etretail.RetailShipment
	err := m.ledger.ExecuteInTransaction(ctx, func(tx rpledger.Tx) error {
		rs, _ := etretail.NewRetailShipment(p, now)

		existing, err := tx.FindRetailShipment(rs.RetailShipmentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errorx.DuplicateRetailShipment(rs.RetailShipmentID)
		}

		master, err := tx.FindShipment(rs.MasterShipmentID)
		if err != nil {
			return err
		}
		if master == nil {
			return errorx.MasterShipmentNotFound(rs.MasterShipmentID)
		}

		if _, err := tx.InsertRetailShipment(rs); err != nil {
			return err
		}
		created = rs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetTrackingProvenance 溯源：源头运单摘要 + 按发货时间排序的零售子运单
func (m *RetailModule) GetTrackingProvenance(ctx context.Context, shipmentID string) (*etretail.Provenance, error) {
	id := etprimitive.NormalizeID(shipmentID)

	var out *etretail.Provenance
	err := m.ledger.View(ctx, func(tx rpledger.View) error {
		s, err := tx.FindShipment(id)
		if err != nil {
			return err
		}
		if s == nil {
			return errorx.ShipmentNotFound(id)
		}

		legs, err := tx.ListRetailShipments(id)
		if err != nil {
			return err
		}
		sortLegs(legs)

		out = &etretail.Provenance{
			OriginLeg: etretail.OriginLeg{
				ShipmentID: s.ShipmentID,
				BatchID:    s.BatchID,
				DeviceID:   s.DeviceID,
				WayBill:    s.WayBill,
			},
			ChildLegs: legs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func sortLegs(legs []*etretail.RetailShipment) {
	sort.SliceStable(legs, func(i, j int) bool {
		if !legs[i].ShippingDate.Equal(legs[j].ShippingDate) {
			return legs[i].ShippingDate.Before(legs[j].ShippingDate)
		}
		return legs[i].RetailShipmentID < legs[j].RetailShipmentID
	})
}
