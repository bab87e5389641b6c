package request

import "github.com/shopspring/decimal"

// CreateShipmentRequest 创建运单请求
type CreateShipmentRequest struct {
	ShipmentID   string          `json:"shipmentId" binding:"required" example:"SHP-1001"`
	VaccineName  string          `json:"vaccineName" binding:"required" example:"Covax"`
	Quantity     int             `json:"quantity" binding:"gte=0" example:"500"`
	Manufacturer string          `json:"manufacturer" example:"ABC-Manufacturer"`
	PolicyID     string          `json:"policyId" example:"POL-7788"`
	Insurer      string          `json:"insurer" example:"Acme Insurance"`
	InsuredValue decimal.Decimal `json:"insuredValue" example:"25000.00"`
	WayBill      *WayBill        `json:"wayBill"`
	GeoLocation  *GeoLocation    `json:"currentGeoLocation"`
}

// WayBill 运单路由
type WayBill struct {
	Origin             string `json:"origin" example:"ABC-Manufacturer"`
	OriginRole         string `json:"originRole" example:"Manufacturer"`
	OriginAddress      string `json:"originAddress" example:"1 Lab Road"`
	Destination        string `json:"destination" example:"ABC-Wholesaler"`
	DestinationRole    string `json:"destinationRole" example:"Wholesaler"`
	DestinationAddress string `json:"destinationAddress" example:"9 Dock Street"`
	Logistics          string `json:"logistics" example:"ColdFreight"`
}

// GeoLocation 上报或登记的位置，坐标格式为 "12.9716° N"
type GeoLocation struct {
	Latitude  string `json:"latitude" example:"12.9716° N"`
	Longitude string `json:"longitude" example:"77.5946° E"`
	Location  string `json:"location" example:"CA"`
}

// TransferCustodyRequest 运单交接请求
type TransferCustodyRequest struct {
	CurrentOwner string `json:"currentOwner" binding:"required" example:"ABC-Wholesaler"`
	CurrentRole  string `json:"currentRole" binding:"required" example:"Wholesaler"`
	NextRole     string `json:"nextRole" example:"Retailer"`
	EventType    string `json:"eventType" binding:"required" example:"RECEIVED"`
	EventDesc    string `json:"eventDesc" binding:"required" example:"Received at warehouse"`
}

// TelemetryRequest 传感器上报请求，未携带湿度时由服务端合成
type TelemetryRequest struct {
	DeviceID    string   `json:"deviceId" example:"DEV-42"`
	Temperature *float64 `json:"temperature" binding:"required" example:"-12.5"`
	Humidity    *float64 `json:"humidity" example:"55"`
	Latitude    string   `json:"latitude" example:"33.1° N"`
	Longitude   string   `json:"longitude" example:"96.2° W"`
	Location    string   `json:"location" example:"TX"`
}

// CreateRetailShipmentRequest 创建零售子运单请求
type CreateRetailShipmentRequest struct {
	RetailShipmentID string   `json:"retailShipmentId" binding:"required" example:"RS-2001"`
	ShipmentID       string   `json:"shipmentId" binding:"required" example:"SHP-1001"`
	RetailQuantity   int      `json:"retailQuantity" binding:"gte=0" example:"50"`
	Wholesaler       string   `json:"wholesaler" example:"ABC-Wholesaler"`
	WayBill          *WayBill `json:"wayBill"`
}

// FileClaimRequest 发起理赔请求
type FileClaimRequest struct {
	ShipmentID   string          `json:"shipmentId" binding:"required" example:"SHP-1001"`
	PolicyID     string          `json:"policyId" example:"POL-7788"`
	InsuredValue decimal.Decimal `json:"insuredValue" example:"25000.00"`
}
