package response

// 报表行沿用已有报表的列名

// ShipmentRow 运单报表行
type ShipmentRow struct {
	ShipmentID       string  `json:"ShipmentID"`
	ShippingDate     string  `json:"ShippingDate"`
	Insurer          string  `json:"Insurer"`
	PolicyID         string  `json:"PolicyId"`
	ClaimID          string  `json:"ClaimID"`
	ClaimRequestDate string  `json:"ClaimRequestDate"`
	ClaimStatus      string  `json:"ClaimStatus"`
	Manufacturer     string  `json:"Manufacturer"`
	Vaccine          string  `json:"Vaccine"`
	Qty              int     `json:"Qty"`
	Origin           string  `json:"Origin"`
	Destination      string  `json:"Destination"`
	InsuredValue     string  `json:"InsuredValue"`
	Status           string  `json:"Status"`
	TemperatureAlert int     `json:"TemperatureAlert"`
	CurrentLocation  string  `json:"CurrentLocation"`
	Latitude         string  `json:"Latitude"`
	Longitude        string  `json:"Longitude"`
	XAxis            float64 `json:"XAxis"`
	YAxis            float64 `json:"YAxis"`
	Location         string  `json:"Location"`
}

// RiskRow 风险地图行
type RiskRow struct {
	ShipmentID       string  `json:"ShipmentId"`
	TemperatureAlert int     `json:"TemperatureAlert"`
	Latitude         string  `json:"Latitude"`
	Longitude        string  `json:"Longitude"`
	XAxis            float64 `json:"XAxis"`
	YAxis            float64 `json:"YAxis"`
	Location         string  `json:"Location"`
}

// RecentShipmentRow 最近运单行
type RecentShipmentRow struct {
	ShipmentID   string `json:"shipmentId"`
	ShippingDate string `json:"shippingDate"`
	Kind         string `json:"kind"`
}

// TemperatureRow 温度序列点
type TemperatureRow struct {
	DateTime    string  `json:"DateTime"`
	Temperature float64 `json:"Temperature"`
}

// HumidityRow 湿度序列点
type HumidityRow struct {
	DateTime string  `json:"DateTime"`
	Humidity float64 `json:"Humidity"`
}

// AuditRow 审计轨迹行
type AuditRow struct {
	ShipmentID   string  `json:"ShipmentID"`
	DateTime     string  `json:"DateTime"`
	CurrentOwner string  `json:"CurrentOwner"`
	CurrentRole  string  `json:"CurrentRole"`
	DeviceID     string  `json:"deviceId"`
	Temperature  float64 `json:"Temperature"`
	Humidity     float64 `json:"Humidity"`
	Latitude     string  `json:"Latitude"`
	Longitude    string  `json:"Longitude"`
	Location     string  `json:"Location"`
	EventDate    string  `json:"EventDate"`
	DocumentID   string  `json:"DocumentId"`
	Hash         string  `json:"Hash"`
	TempHash     string  `json:"TempHash"`
}

// MovementsResponse 运单流转
type MovementsResponse struct {
	ShipmentID    string          `json:"ShipmentID"`
	Status        string          `json:"Status"`
	Manufacturer  string          `json:"manufacturer"`
	VaccineName   string          `json:"VaccineName"`
	CurrentOwner  string          `json:"CurrentOwner"`
	TrackerEvents []EventResponse `json:"shipmentTrackerEvents"`
}

// CountResponse 计数
type CountResponse struct {
	Count int64 `json:"count"`
}
