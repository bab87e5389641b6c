package response

// ShipmentResponse 运单详情（DTO）
type ShipmentResponse struct {
	ShipmentID             string          `json:"shipmentId"`
	VaccineName            string          `json:"vaccineName"`
	Quantity               int             `json:"quantity"`
	ShippingDate           string          `json:"shippingDate"`
	Manufacturer           string          `json:"manufacturer"`
	CurrentOwner           string          `json:"currentOwner"`
	CurrentRole            string          `json:"currentRole"`
	Status                 string          `json:"status"`
	DeviceID               string          `json:"deviceId,omitempty"`
	TemperatureExcursion   int             `json:"temperatureExcursion"`
	HumidityRangeViolation int             `json:"humidityRangeViolation"`
	PolicyID               string          `json:"policyId"`
	Insurer                string          `json:"insurer"`
	InsuredValue           string          `json:"insuredValue"`
	ClaimID                string          `json:"claimId,omitempty"`
	ClaimStatus            string          `json:"claimStatus"`
	ClaimRequestDate       string          `json:"claimRequestDate,omitempty"`
	TrackerEvents          []EventResponse `json:"shipmentTrackerEvents"`
	WayBill                WayBill         `json:"wayBill"`
	GeoLocation            GeoLocation     `json:"currentGeoLocation"`
	BatchID                string          `json:"batchId"`
}

// EventResponse 追踪事件（DTO）
type EventResponse struct {
	EventOwner      string `json:"eventOwner"`
	EventRole       string `json:"eventRole"`
	EventType       string `json:"eventType"`
	EventDesc       string `json:"eventDesc"`
	SensorCondition string `json:"sensorCondition"`
	EventDate       string `json:"eventDate"`
	NextRole        string `json:"nextRole,omitempty"`
}

// WayBill 运单路由（DTO）
type WayBill struct {
	Origin             string `json:"origin"`
	OriginRole         string `json:"originRole"`
	OriginAddress      string `json:"originAddress"`
	Destination        string `json:"destination"`
	DestinationRole    string `json:"destinationRole"`
	DestinationAddress string `json:"destinationAddress"`
	Logistics          string `json:"logistics"`
}

// GeoLocation 位置（DTO）
type GeoLocation struct {
	Latitude  string  `json:"latitude"`
	XAxis     float64 `json:"xaxis"`
	Longitude string  `json:"longitude"`
	YAxis     float64 `json:"yaxis"`
	Location  string  `json:"location"`
}

// CustodyResponse 交接结果
type CustodyResponse struct {
	ShipmentID  string `json:"shipmentId"`
	CurrentRole string `json:"currentRole"`
	NextRole    string `json:"nextRole"`
	Response    string `json:"response"`
}

// TelemetryResponse 上报结果，response 为本次温度
type TelemetryResponse struct {
	ShipmentID string  `json:"shipmentId"`
	DeviceID   string  `json:"deviceId"`
	Response   float64 `json:"response"`
	Alert      bool    `json:"alert"`
}

// RetailShipmentResponse 零售子运单
type RetailShipmentResponse struct {
	RetailShipmentID       string      `json:"retailShipmentId"`
	ShipmentID             string      `json:"shipmentId"`
	RetailQuantity         int         `json:"retailQuantity"`
	Wholesaler             string      `json:"wholesaler"`
	CurrentOwner           string      `json:"currentOwner"`
	CurrentRole            string      `json:"currentRole"`
	Status                 string      `json:"status"`
	DeviceID               string      `json:"deviceId,omitempty"`
	TemperatureExcursion   int         `json:"temperatureExcursion"`
	HumidityRangeViolation int         `json:"humidityRangeViolation"`
	ShippingDate           string      `json:"shippingDate"`
	DeliveryDate           string      `json:"deliveryDate,omitempty"`
	WayBill                WayBill     `json:"wayBill"`
	GeoLocation            GeoLocation `json:"currentGeoLocation"`
}

// ProvenanceResponse 溯源结果
type ProvenanceResponse struct {
	OriginLeg OriginLegResponse         `json:"originLeg"`
	ChildLegs []*RetailShipmentResponse `json:"childLegs"`
}

// OriginLegResponse 源头运单摘要
type OriginLegResponse struct {
	ShipmentID string  `json:"shipmentId"`
	BatchID    string  `json:"batchId"`
	DeviceID   string  `json:"deviceId,omitempty"`
	WayBill    WayBill `json:"wayBill"`
}

// ClaimResponse 理赔回执
type ClaimResponse struct {
	ShipmentID string `json:"shipmentId"`
	ClaimID    string `json:"claimId"`
	Response   string `json:"response"`
}
