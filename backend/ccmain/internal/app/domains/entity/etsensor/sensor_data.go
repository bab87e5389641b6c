package etsensor

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
)

// SensorData 传感器读数事实（只追加）
type SensorData struct {
	ShipmentID   string
	Kind         etshipment.Kind
	DeviceID     string
	Temperature  float64
	Humidity     float64
	Geo          etgeo.Location
	EventDate    time.Time
	CurrentRole  string
	CurrentOwner string
	TempHash     string

	// 以下由账本在提交时填充
	DocumentID  string
	CommittedAt time.Time
	Hash        string
}

// ContentHash 读数内容指纹（sha256 十六进制），账本提交时写入 Hash
func (s *SensorData) ContentHash() string {
	payload, _ := json.Marshal(struct {
		ShipmentID   string  `json:"shipmentId"`
		DeviceID     string  `json:"deviceId"`
		Temperature  float64 `json:"temperature"`
		Humidity     float64 `json:"humidity"`
		Latitude     string  `json:"latitude"`
		Longitude    string  `json:"longitude"`
		Location     string  `json:"location"`
		EventDate    string  `json:"eventDate"`
		CurrentRole  string  `json:"currentRole"`
		CurrentOwner string  `json:"currentOwner"`
		TempHash     string  `json:"tempHash"`
		DocumentID   string  `json:"documentId"`
	}{
		ShipmentID:   s.ShipmentID,
		DeviceID:     s.DeviceID,
		Temperature:  s.Temperature,
		Humidity:     s.Humidity,
		Latitude:     s.Geo.Latitude,
		Longitude:    s.Geo.Longitude,
		Location:     s.Geo.Location,
		EventDate:    etprimitive.FormatISO(s.EventDate),
		CurrentRole:  s.CurrentRole,
		CurrentOwner: s.CurrentOwner,
		TempHash:     s.TempHash,
		DocumentID:   s.DocumentID,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
