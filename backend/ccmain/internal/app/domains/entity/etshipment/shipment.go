package etshipment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etrisk"
)

// 错误定义
var (
	ErrInvalidShipmentID = errors.New("shipment ID cannot be empty")
	ErrRetailPrefix      = errors.New("shipment ID must not start with the retail prefix RS")
	ErrNegativeQuantity  = errors.New("quantity cannot be negative")
)

const (
	RoleManufacturer = "Manufacturer"
	RoleWholesaler   = "Wholesaler"

	StatusInTransit = "In-Transit"

	DefaultManufacturer = "ABC-Manufacturer"

	EventTypeShipping     = "SHIPPING"
	EventTypeSensorReport = "SENSOR_REPORT"

	EventDescLeftFacility = "Left Facility"
	SensorConditionActive = "Active, normal readings"
)

// Shipment 主运单聚合根（领域对象）
type Shipment struct {
	ShipmentID   string          // 运单ID（大写，唯一）
	VaccineName  string          // 疫苗名称
	Quantity     int             // 数量
	ShippingDate time.Time       // 发货时间
	Manufacturer string          // 生产方
	CurrentOwner string          // 当前持有方
	CurrentRole  string          // 当前角色
	Status       string          // 运输状态
	DeviceID     string          // 最近上报的设备号
	Counters     etrisk.Counters // 风险计数
	PolicyID     string          // 保单号
	Insurer      string          // 保险方
	InsuredValue decimal.Decimal // 投保金额
	Claim        ClaimState      // 理赔状态
	Events       []Event         // 追踪事件，最新在前
	WayBill      WayBill         // 运单路由
	Geo          etgeo.Location  // 当前位置
	BatchID      string          // 批次号（账本文档ID大写）
	DocumentID   string          // 账本文档ID
}

// NewShipmentParams 创建运单参数
type NewShipmentParams struct {
	ShipmentID   string
	VaccineName  string
	Quantity     int
	Manufacturer string
	PolicyID     string
	Insurer      string
	InsuredValue decimal.Decimal
	WayBill      WayBill
	GeoReading   *etgeo.Reading  // 调用方登记的位置，缺项按 DefaultGeo 补齐
	Geo          *etgeo.Location // 已解析的位置，优先于 DefaultGeo
	DefaultGeo   etgeo.Location
}

// NewShipment 创建运单（工厂方法）
func NewShipment(p NewShipmentParams, now time.Time) (*Shipment, error) {
	id := etprimitive.NormalizeID(p.ShipmentID)
	if id == "" {
		return nil, ErrInvalidShipmentID
	}
	if etprimitive.HasRetailPrefix(id) {
		return nil, ErrRetailPrefix
	}
	if p.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	manufacturer := p.Manufacturer
	if manufacturer == "" {
		manufacturer = DefaultManufacturer
	}
	geo := p.DefaultGeo
	if p.Geo != nil {
		geo = *p.Geo
	}

	return &Shipment{
		ShipmentID:   id,
		VaccineName:  p.VaccineName,
		Quantity:     p.Quantity,
		ShippingDate: now,
		Manufacturer: manufacturer,
		CurrentOwner: manufacturer,
		CurrentRole:  RoleManufacturer,
		Status:       StatusInTransit,
		PolicyID:     p.PolicyID,
		Insurer:      p.Insurer,
		InsuredValue: p.InsuredValue,
		Claim:        Unclaimed(),
		Events: []Event{{
			EventOwner:      manufacturer,
			EventRole:       RoleManufacturer,
			EventType:       EventTypeShipping,
			EventDesc:       EventDescLeftFacility,
			SensorCondition: SensorConditionActive,
			EventDate:       now,
		}},
		WayBill: p.WayBill,
		Geo:     geo,
	}, nil
}

// PrependEvent 追加追踪事件到队首
func (s *Shipment) PrependEvent(ev Event) {
	s.Events = append([]Event{ev}, s.Events...)
}

// TransferCustody 交接：记录事件并更新持有方（领域行为）
func (s *Shipment) TransferCustody(ev Event, currentOwner, currentRole string) {
	s.PrependEvent(ev)
	s.CurrentOwner = currentOwner
	s.CurrentRole = currentRole
}

// ApplyReading 应用一次风险评估结果（领域行为）
func (s *Shipment) ApplyReading(deviceID string, a etrisk.Assessment, ev Event) {
	s.DeviceID = deviceID
	s.Counters = a.Counters
	s.PrependEvent(ev)
}

// SensorReportEvent 构造传感器上报事件
func (s *Shipment) SensorReportEvent(a etrisk.Assessment, desc string, at time.Time) Event {
	return Event{
		EventOwner:      s.CurrentOwner,
		EventRole:       s.CurrentRole,
		EventType:       EventTypeSensorReport,
		EventDesc:       desc,
		SensorCondition: a.Condition,
		EventDate:       at,
	}
}

// FileClaim 发起理赔（领域行为），已有处理中的理赔时返回已有的理赔状态
func (s *Shipment) FileClaim(policyID string, now time.Time) (ClaimState, bool) {
	if s.Claim.Active() {
		return s.Claim, false
	}
	s.Claim = PendingClaim(policyID, now)
	return s.Claim, true
}

// HighRisk 是否高风险运单
func (s *Shipment) HighRisk() bool {
	return etrisk.IsHighRisk(s.Counters.TemperatureExcursion)
}
