package mdreport

import (
	"context"
	"sort"
	"time"

	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etrisk"
	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/domains/repo/rpledger"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
)

const (
	RecentClaimsLimit    = 3
	RecentShipmentsLimit = 10
	SeriesLimit          = 10
)

// 报表名称，用于 ReportingNotFound 的提示
const (
	ReportShipmentsByParty  = "shipments by party"
	ReportHighRisk          = "high risk shipments"
	ReportRecentClaims      = "recent claims"
	ReportRecentShipments   = "recent shipments"
	ReportTemperatureSeries = "temperature series"
	ReportHumiditySeries    = "humidity series"
	ReportAuditTrail        = "audit trail"
	ReportClaimsOverview    = "claims overview"
	ReportLocations         = "shipment locations"
	ReportRiskMap           = "risk map"
	ReportMovements         = "shipment movements"
	ReportLatestReading     = "latest reading"
)

// RecentShipment 最近运单（主运单与零售子运单混排）
type RecentShipment struct {
	ShipmentID   string
	ShippingDate time.Time
	Kind         etshipment.Kind
}

// SeriesPoint 时间序列中的一个点，时间为账本提交时间
type SeriesPoint struct {
	At    time.Time
	Value float64
}

// ReportModule 只读报表模块，所有查询都在只读快照内完成
type ReportModule struct {
	ledger rpledger.Ledger
}

// NewReportModule 创建报表模块
func NewReportModule(ledger rpledger.Ledger) *ReportModule {
	return &ReportModule{ledger: ledger}
}

// ShipmentsByParty 某生产方的运单
func (m *ReportModule) ShipmentsByParty(ctx context.Context, party string) ([]*etshipment.Shipment, error) {
	return m.listShipments(ctx, ReportShipmentsByParty, rpledger.ShipmentQuery{Manufacturer: etprimitive.NormalizeID(party)}, byShippingDateDesc, 0)
}

// HighRiskShipments 温度偏离次数达到阈值的运单，party 为空时不限生产方
func (m *ReportModule) HighRiskShipments(ctx context.Context, party string) ([]*etshipment.Shipment, error) {
	q := rpledger.ShipmentQuery{
		Manufacturer:  etprimitive.NormalizeID(party),
		MinExcursions: etrisk.HighRiskExcursions,
	}
	return m.listShipments(ctx, ReportHighRisk, q, byShippingDateDesc, 0)
}

// RecentClaims 最近发起理赔的运单
func (m *ReportModule) RecentClaims(ctx context.Context, party string) ([]*etshipment.Shipment, error) {
	q := rpledger.ShipmentQuery{
		Manufacturer: etprimitive.NormalizeID(party),
		ClaimedOnly:  true,
	}
	return m.listShipments(ctx, ReportRecentClaims, q, byClaimDateDesc, RecentClaimsLimit)
}

// ClaimsOverview 全部运单的理赔与位置信息
func (m *ReportModule) ClaimsOverview(ctx context.Context) ([]*etshipment.Shipment, error) {
	return m.listShipments(ctx, ReportClaimsOverview, rpledger.ShipmentQuery{}, byShippingDateDesc, 0)
}

// ShipmentLocations 某生产方运单的当前位置
func (m *ReportModule) ShipmentLocations(ctx context.Context, party string) ([]*etshipment.Shipment, error) {
	return m.listShipments(ctx, ReportLocations, rpledger.ShipmentQuery{Manufacturer: etprimitive.NormalizeID(party)}, byShippingDateDesc, 0)
}

// RiskMap 全部运单的风险与坐标
func (m *ReportModule) RiskMap(ctx context.Context) ([]*etshipment.Shipment, error) {
	return m.listShipments(ctx, ReportRiskMap, rpledger.ShipmentQuery{}, byShipmentID, 0)
}

// RecentShipments 最近发货的运单，主运单和零售子运单一起按发货时间倒序
func (m *ReportModule) RecentShipments(ctx context.Context) ([]RecentShipment, error) {
	var out []RecentShipment
	err := m.ledger.View(ctx, func(tx rpledger.View) error {
		masters, err := tx.ListShipments(rpledger.ShipmentQuery{})
		if err != nil {
			return err
		}
		legs, err := tx.ListRetailShipments("")
		if err != nil {
			return err
		}

		rows := make([]RecentShipment, 0, len(masters)+len(legs))
		for _, s := range masters {
			rows = append(rows, RecentShipment{ShipmentID: s.ShipmentID, ShippingDate: s.ShippingDate, Kind: etshipment.KindMaster})
		}
		for _, rs := range legs {
			rows = append(rows, RecentShipment{ShipmentID: rs.RetailShipmentID, ShippingDate: rs.ShippingDate, Kind: etshipment.KindRetailLeg})
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if !rows[i].ShippingDate.Equal(rows[j].ShippingDate) {
				return rows[i].ShippingDate.After(rows[j].ShippingDate)
			}
			return rows[i].ShipmentID < rows[j].ShipmentID
		})
		out = truncate(rows, RecentShipmentsLimit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errorx.ReportingNotFound(ReportRecentShipments)
	}
	return out, nil
}

// TemperatureSeries 最近的温度读数
func (m *ReportModule) TemperatureSeries(ctx context.Context, shipmentID string) ([]SeriesPoint, error) {
	return m.series(ctx, ReportTemperatureSeries, shipmentID, func(sd *etsensor.SensorData) float64 { return sd.Temperature })
}

// HumiditySeries 最近的湿度读数
func (m *ReportModule) HumiditySeries(ctx context.Context, shipmentID string) ([]SeriesPoint, error) {
	return m.series(ctx, ReportHumiditySeries, shipmentID, func(sd *etsensor.SensorData) float64 { return sd.Humidity })
}

// AuditTrail 某运单全部传感器事实（含账本元数据）
func (m *ReportModule) AuditTrail(ctx context.Context, shipmentID string) ([]*etsensor.SensorData, error) {
	facts, err := m.sensorFacts(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if len(facts) == 0 {
		return nil, errorx.ReportingNotFound(ReportAuditTrail)
	}
	return facts, nil
}

// LatestReading 最近一次传感器事实
func (m *ReportModule) LatestReading(ctx context.Context, shipmentID string) (*etsensor.SensorData, error) {
	facts, err := m.sensorFacts(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if len(facts) == 0 {
		return nil, errorx.ReportingNotFound(ReportLatestReading)
	}
	return facts[0], nil
}

// ShipmentMovements 运单状态、持有方与追踪事件
func (m *ReportModule) ShipmentMovements(ctx context.Context, shipmentID string) (*etshipment.Shipment, error) {
	id := etprimitive.NormalizeID(shipmentID)

	var found *etshipment.Shipment
	err := m.ledger.View(ctx, func(tx rpledger.View) error {
		s, err := tx.FindShipment(id)
		if err != nil {
			return err
		}
		found = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, errorx.ReportingNotFound(ReportMovements)
	}
	return found, nil
}

// CountShipments 运单总数，party 非空时按生产方统计
func (m *ReportModule) CountShipments(ctx context.Context, party string) (int64, error) {
	return m.count(ctx, rpledger.ShipmentQuery{Manufacturer: etprimitive.NormalizeID(party)})
}

// CountClaims 已发起理赔的运单数
func (m *ReportModule) CountClaims(ctx context.Context, party string) (int64, error) {
	return m.count(ctx, rpledger.ShipmentQuery{Manufacturer: etprimitive.NormalizeID(party), ClaimedOnly: true})
}

// CountHighRisk 高风险运单数
func (m *ReportModule) CountHighRisk(ctx context.Context) (int64, error) {
	return m.count(ctx, rpledger.ShipmentQuery{MinExcursions: etrisk.HighRiskExcursions})
}

func (m *ReportModule) count(ctx context.Context, q rpledger.ShipmentQuery) (int64, error) {
	var n int64
	err := m.ledger.View(ctx, func(tx rpledger.View) error {
		var err error
		n, err = tx.CountShipments(q)
		return err
	})
	return n, err
}

type shipmentLess func(a, b *etshipment.Shipment) bool

func byShippingDateDesc(a, b *etshipment.Shipment) bool {
	if !a.ShippingDate.Equal(b.ShippingDate) {
		return a.ShippingDate.After(b.ShippingDate)
	}
	return a.ShipmentID < b.ShipmentID
}

func byClaimDateDesc(a, b *etshipment.Shipment) bool {
	if !a.Claim.RequestDate.Equal(b.Claim.RequestDate) {
		return a.Claim.RequestDate.After(b.Claim.RequestDate)
	}
	return a.ShipmentID < b.ShipmentID
}

func byShipmentID(a, b *etshipment.Shipment) bool {
	return a.ShipmentID < b.ShipmentID
}

func (m *ReportModule) listShipments(ctx context.Context, report string, q rpledger.ShipmentQuery, less shipmentLess, limit int) ([]*etshipment.Shipment, error) {
	var out []*etshipment.Shipment
	err := m.ledger.View(ctx, func(tx rpledger.View) error {
		rows, err := tx.ListShipments(q)
		if err != nil {
			return err
		}
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
		out = truncate(rows, limit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errorx.ReportingNotFound(report)
	}
	return out, nil
}

// sensorFacts 按提交时间倒序返回传感器事实
func (m *ReportModule) sensorFacts(ctx context.Context, shipmentID string) ([]*etsensor.SensorData, error) {
	id := etprimitive.NormalizeID(shipmentID)

	var facts []*etsensor.SensorData
	err := m.ledger.View(ctx, func(tx rpledger.View) error {
		var err error
		facts, err = tx.ListSensorData(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(facts, func(i, j int) bool {
		if !facts[i].CommittedAt.Equal(facts[j].CommittedAt) {
			return facts[i].CommittedAt.After(facts[j].CommittedAt)
		}
		return facts[i].DocumentID > facts[j].DocumentID
	})
	return facts, nil
}

func (m *ReportModule) series(ctx context.Context, report, shipmentID string, value func(*etsensor.SensorData) float64) ([]SeriesPoint, error) {
	facts, err := m.sensorFacts(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	facts = truncate(facts, SeriesLimit)
	if len(facts) == 0 {
		return nil, errorx.ReportingNotFound(report)
	}

	points := make([]SeriesPoint, 0, len(facts))
	for _, sd := range facts {
		points = append(points, SeriesPoint{At: sd.CommittedAt, Value: value(sd)})
	}
	return points, nil
}

func truncate[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
