package etretail

import (
	"errors"
	"time"

	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etrisk"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
)

// 错误定义
var (
	ErrInvalidRetailShipmentID = errors.New("retail shipment ID cannot be empty")
	ErrMissingRetailPrefix     = errors.New("retail shipment ID must start with RS")
	ErrInvalidMasterShipmentID = errors.New("master shipment ID cannot be empty")
	ErrNegativeRetailQuantity  = errors.New("retail quantity cannot be negative")
)

const DefaultWholesaler = "ABC-Wholesaler"

// RetailShipment 零售子运单（依附于主运单）
type RetailShipment struct {
	RetailShipmentID string
	MasterShipmentID string
	RetailQuantity   int
	WayBill          etshipment.WayBill
	Wholesaler       string
	CurrentOwner     string
	CurrentRole      string
	Status           string
	DeviceID         string
	Counters         etrisk.Counters
	Geo              etgeo.Location
	ShippingDate     time.Time
	DeliveryDate     *time.Time
	DocumentID       string
}

// NewRetailShipmentParams 创建零售子运单参数
type NewRetailShipmentParams struct {
	RetailShipmentID string
	MasterShipmentID string
	RetailQuantity   int
	WayBill          etshipment.WayBill
	Wholesaler       string
	DefaultGeo       etgeo.Location
}

// NewRetailShipment 创建零售子运单（工厂方法）
func NewRetailShipment(p NewRetailShipmentParams, now time.Time) (*RetailShipment, error) {
	id := etprimitive.NormalizeID(p.RetailShipmentID)
	if id == "" {
		return nil, ErrInvalidRetailShipmentID
	}
	if !etprimitive.HasRetailPrefix(id) {
		return nil, ErrMissingRetailPrefix
	}
	masterID := etprimitive.NormalizeID(p.MasterShipmentID)
	if masterID == "" {
		return nil, ErrInvalidMasterShipmentID
	}
	if p.RetailQuantity < 0 {
		return nil, ErrNegativeRetailQuantity
	}

	wholesaler := p.Wholesaler
	if wholesaler == "" {
		wholesaler = DefaultWholesaler
	}

	return &RetailShipment{
		RetailShipmentID: id,
		MasterShipmentID: masterID,
		RetailQuantity:   p.RetailQuantity,
		WayBill:          p.WayBill,
		Wholesaler:       wholesaler,
		CurrentOwner:     wholesaler,
		CurrentRole:      etshipment.RoleWholesaler,
		Status:           etshipment.StatusInTransit,
		Geo:              p.DefaultGeo,
		ShippingDate:     now,
	}, nil
}

// ApplyReading 应用风险评估结果并移动到最新位置（领域行为）
func (r *RetailShipment) ApplyReading(deviceID string, a etrisk.Assessment, geo etgeo.Location) {
	r.DeviceID = deviceID
	r.Counters = a.Counters
	r.Geo = geo
}

// Provenance 溯源视图：源头运单 + 零售子运单
type Provenance struct {
	OriginLeg OriginLeg
	ChildLegs []*RetailShipment
}

// OriginLeg 溯源中的源头运单摘要
type OriginLeg struct {
	ShipmentID string
	BatchID    string
	DeviceID   string
	WayBill    etshipment.WayBill
}
