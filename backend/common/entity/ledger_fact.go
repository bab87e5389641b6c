package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SensorData 传感器读数事实表（只追加）
type SensorData struct {
	DocumentID   string    `gorm:"column:document_id;primaryKey;type:varchar(32)"`
	ShipmentID   string    `gorm:"column:shipment_id;type:varchar(64);not null;index:idx_sensor_shipment_committed"`
	Kind         string    `gorm:"column:kind;type:varchar(16);not null"`
	DeviceID     string    `gorm:"column:device_id;type:varchar(64);not null"`
	Temperature  float64   `gorm:"column:temperature;not null"`
	Humidity     float64   `gorm:"column:humidity;not null"`
	Latitude     string    `gorm:"column:latitude;type:varchar(32)"`
	XAxis        float64   `gorm:"column:x_axis"`
	Longitude    string    `gorm:"column:longitude;type:varchar(32)"`
	YAxis        float64   `gorm:"column:y_axis"`
	Location     string    `gorm:"column:location;type:varchar(128)"`
	EventDate    time.Time `gorm:"column:event_date;not null"`
	CurrentRole  string    `gorm:"column:current_role;type:varchar(32)"`
	CurrentOwner string    `gorm:"column:current_owner;type:varchar(128)"`
	TempHash     string    `gorm:"column:temp_hash;type:varchar(160)"`
	Hash         string    `gorm:"column:hash;type:char(64);not null"`
	CommittedAt  time.Time `gorm:"column:committed_at;not null;index:idx_sensor_shipment_committed"`
}

// TableName 指定表名
func (SensorData) TableName() string {
	return "sensor_data"
}

// Claim 理赔事实表（只追加）
type Claim struct {
	DocumentID       string          `gorm:"column:document_id;primaryKey;type:varchar(32)"`
	ShipmentID       string          `gorm:"column:shipment_id;type:varchar(64);not null;index:idx_claim_shipment"`
	PolicyID         string          `gorm:"column:policy_id;type:varchar(64)"`
	ClaimID          string          `gorm:"column:claim_id;type:varchar(72);not null"`
	ClaimStatus      string          `gorm:"column:claim_status;type:varchar(16);not null"`
	ClaimRequestDate time.Time       `gorm:"column:claim_request_date;not null"`
	InsuredValue     decimal.Decimal `gorm:"column:insured_value;type:decimal(20,4);not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;not null"`
}

// TableName 指定表名
func (Claim) TableName() string {
	return "claims"
}
