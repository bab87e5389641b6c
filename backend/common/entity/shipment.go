package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Shipment 主运单实体
type Shipment struct {
	// 基础字段
	ID         string `gorm:"column:id;primaryKey;type:varchar(64)"` // shipmentId（大写）
	DocumentID string `gorm:"column:document_id;type:varchar(32);not null;uniqueIndex:uk_document_id"`
	BatchID    string `gorm:"column:batch_id;type:varchar(32)"`

	// 运单数据
	VaccineName  string    `gorm:"column:vaccine_name;type:varchar(128)"`
	Quantity     int       `gorm:"column:quantity;not null;default:0"`
	ShippingDate time.Time `gorm:"column:shipping_date;not null;index:idx_shipping_date"`
	Manufacturer string    `gorm:"column:manufacturer;type:varchar(128);not null;index:idx_manufacturer"`
	CurrentOwner string    `gorm:"column:current_owner;type:varchar(128)"`
	CurrentRole  string    `gorm:"column:current_role;type:varchar(32)"`
	Status       string    `gorm:"column:status;type:varchar(32);not null;default:'In-Transit'"`
	DeviceID     string    `gorm:"column:device_id;type:varchar(64)"`

	// 风险计数
	TemperatureExcursion   int `gorm:"column:temperature_excursion;not null;default:0;index:idx_temperature_excursion"`
	HumidityRangeViolation int `gorm:"column:humidity_range_violation;not null;default:0"`

	// 保险与理赔（未理赔时为 NC / NA / NA）
	PolicyID         string          `gorm:"column:policy_id;type:varchar(64)"`
	Insurer          string          `gorm:"column:insurer;type:varchar(128)"`
	InsuredValue     decimal.Decimal `gorm:"column:insured_value;type:decimal(20,4);not null;default:0"`
	ClaimID          string          `gorm:"column:claim_id;type:varchar(72);not null;default:'NC';index:idx_claim_id"`
	ClaimStatus      string          `gorm:"column:claim_status;type:varchar(16);not null;default:'NA'"`
	ClaimRequestDate string          `gorm:"column:claim_request_date;type:varchar(32);not null;default:'NA'"`

	// JSON 字段
	TrackerEvents datatypes.JSON `gorm:"column:tracker_events;type:json;not null"`
	WayBill       datatypes.JSON `gorm:"column:way_bill;type:json"`
	GeoLocation   datatypes.JSON `gorm:"column:geo_location;type:json"`

	// 乐观锁版本号
	Version int64 `gorm:"column:version;not null;default:1"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Shipment) TableName() string {
	return "shipments"
}

// RetailShipment 零售子运单实体
type RetailShipment struct {
	ID               string `gorm:"column:id;primaryKey;type:varchar(64)"` // retailShipmentId（大写，RS 开头）
	DocumentID       string `gorm:"column:document_id;type:varchar(32);not null;uniqueIndex:uk_retail_document_id"`
	MasterShipmentID string `gorm:"column:master_shipment_id;type:varchar(64);not null;index:idx_master_shipment"`

	RetailQuantity int            `gorm:"column:retail_quantity;not null;default:0"`
	WayBill        datatypes.JSON `gorm:"column:way_bill;type:json"`
	Wholesaler     string         `gorm:"column:wholesaler;type:varchar(128)"`
	CurrentOwner   string         `gorm:"column:current_owner;type:varchar(128)"`
	CurrentRole    string         `gorm:"column:current_role;type:varchar(32)"`
	Status         string         `gorm:"column:status;type:varchar(32);not null;default:'In-Transit'"`
	DeviceID       string         `gorm:"column:device_id;type:varchar(64)"`

	TemperatureExcursion   int `gorm:"column:temperature_excursion;not null;default:0"`
	HumidityRangeViolation int `gorm:"column:humidity_range_violation;not null;default:0"`

	GeoLocation  datatypes.JSON `gorm:"column:geo_location;type:json"`
	ShippingDate time.Time      `gorm:"column:shipping_date;not null;index:idx_retail_shipping_date"`
	DeliveryDate *time.Time     `gorm:"column:delivery_date"`

	Version int64 `gorm:"column:version;not null;default:1"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (RetailShipment) TableName() string {
	return "retail_shipments"
}

// 未理赔时的历史兼容取值
const (
	ClaimIDNone          = "NC"
	ClaimStatusNone      = "NA"
	ClaimRequestDateNone = "NA"
)
