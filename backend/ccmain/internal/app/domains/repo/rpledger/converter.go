package rpledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"coldchain/backend/common/entity"
	"coldchain/backend/ccmain/internal/app/domains/entity/etclaim"
	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etretail"
	"coldchain/backend/ccmain/internal/app/domains/entity/etrisk"
	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
)

// geoJSON 位置 JSON 列的存储格式
type geoJSON struct {
	Latitude  string  `json:"latitude"`
	XAxis     float64 `json:"xaxis"`
	Longitude string  `json:"longitude"`
	YAxis     float64 `json:"yaxis"`
	Location  string  `json:"location"`
}

func toGeoJSON(l etgeo.Location) (datatypes.JSON, error) {
	return json.Marshal(geoJSON{
		Latitude:  l.Latitude,
		XAxis:     l.XAxis,
		Longitude: l.Longitude,
		YAxis:     l.YAxis,
		Location:  l.Location,
	})
}

func fromGeoJSON(raw datatypes.JSON) (etgeo.Location, error) {
	if len(raw) == 0 {
		return etgeo.Location{}, nil
	}
	var g geoJSON
	if err := json.Unmarshal(raw, &g); err != nil {
		return etgeo.Location{}, fmt.Errorf("decode geo location: %w", err)
	}
	return etgeo.Location{
		Latitude:  g.Latitude,
		XAxis:     g.XAxis,
		Longitude: g.Longitude,
		YAxis:     g.YAxis,
		Location:  g.Location,
	}, nil
}

func fromWayBillJSON(raw datatypes.JSON) (etshipment.WayBill, error) {
	var wb etshipment.WayBill
	if len(raw) == 0 {
		return wb, nil
	}
	if err := json.Unmarshal(raw, &wb); err != nil {
		return wb, fmt.Errorf("decode way bill: %w", err)
	}
	return wb, nil
}

// claimColumns 理赔状态写入列时的历史兼容编码
func claimColumns(c etshipment.ClaimState) (claimID, status, requestDate string) {
	if !c.Active() {
		return entity.ClaimIDNone, entity.ClaimStatusNone, entity.ClaimRequestDateNone
	}
	return c.ClaimID, string(c.Status), etprimitive.FormatISO(c.RequestDate)
}

// claimFromColumns 历史编码还原为理赔状态
func claimFromColumns(claimID, status, requestDate string) etshipment.ClaimState {
	if strings.EqualFold(claimID, entity.ClaimIDNone) || claimID == "" || status == entity.ClaimStatusNone {
		return etshipment.Unclaimed()
	}
	at, err := time.Parse(etprimitive.ISOLayout, requestDate)
	if err != nil {
		at, _ = time.Parse(time.RFC3339Nano, requestDate)
	}
	return etshipment.ClaimState{
		Status:      etshipment.ClaimStatus(status),
		ClaimID:     claimID,
		RequestDate: at,
	}
}

// toShipmentModel 领域对象转换为 GORM 模型
func toShipmentModel(s *etshipment.Shipment) (*entity.Shipment, error) {
	events, err := json.Marshal(s.Events)
	if err != nil {
		return nil, fmt.Errorf("encode tracker events: %w", err)
	}
	wayBill, err := json.Marshal(s.WayBill)
	if err != nil {
		return nil, fmt.Errorf("encode way bill: %w", err)
	}
	geo, err := toGeoJSON(s.Geo)
	if err != nil {
		return nil, fmt.Errorf("encode geo location: %w", err)
	}
	claimID, claimStatus, claimDate := claimColumns(s.Claim)

	return &entity.Shipment{
		ID:                     s.ShipmentID,
		DocumentID:             s.DocumentID,
		BatchID:                s.BatchID,
		VaccineName:            s.VaccineName,
		Quantity:               s.Quantity,
		ShippingDate:           s.ShippingDate,
		Manufacturer:           s.Manufacturer,
		CurrentOwner:           s.CurrentOwner,
		CurrentRole:            s.CurrentRole,
		Status:                 s.Status,
		DeviceID:               s.DeviceID,
		TemperatureExcursion:   s.Counters.TemperatureExcursion,
		HumidityRangeViolation: s.Counters.HumidityRangeViolation,
		PolicyID:               s.PolicyID,
		Insurer:                s.Insurer,
		InsuredValue:           s.InsuredValue,
		ClaimID:                claimID,
		ClaimStatus:            claimStatus,
		ClaimRequestDate:       claimDate,
		TrackerEvents:          events,
		WayBill:                wayBill,
		GeoLocation:            geo,
	}, nil
}

// toShipmentDomain GORM 模型转换为领域对象
func toShipmentDomain(po *entity.Shipment) (*etshipment.Shipment, error) {
	var events []etshipment.Event
	if len(po.TrackerEvents) > 0 {
		if err := json.Unmarshal(po.TrackerEvents, &events); err != nil {
			return nil, fmt.Errorf("decode tracker events: %w", err)
		}
	}
	wayBill, err := fromWayBillJSON(po.WayBill)
	if err != nil {
		return nil, err
	}
	geo, err := fromGeoJSON(po.GeoLocation)
	if err != nil {
		return nil, err
	}

	return &etshipment.Shipment{
		ShipmentID:   po.ID,
		VaccineName:  po.VaccineName,
		Quantity:     po.Quantity,
		ShippingDate: po.ShippingDate,
		Manufacturer: po.Manufacturer,
		CurrentOwner: po.CurrentOwner,
		CurrentRole:  po.CurrentRole,
		Status:       po.Status,
		DeviceID:     po.DeviceID,
		Counters: etrisk.Counters{
			TemperatureExcursion:   po.TemperatureExcursion,
			HumidityRangeViolation: po.HumidityRangeViolation,
		},
		PolicyID:     po.PolicyID,
		Insurer:      po.Insurer,
		InsuredValue: po.InsuredValue,
		Claim:        claimFromColumns(po.ClaimID, po.ClaimStatus, po.ClaimRequestDate),
		Events:       events,
		WayBill:      wayBill,
		Geo:          geo,
		BatchID:      po.BatchID,
		DocumentID:   po.DocumentID,
	}, nil
}

func toRetailModel(rs *etretail.RetailShipment) (*entity.RetailShipment, error) {
	wayBill, err := json.Marshal(rs.WayBill)
	if err != nil {
		return nil, fmt.Errorf("encode way bill: %w", err)
	}
	geo, err := toGeoJSON(rs.Geo)
	if err != nil {
		return nil, err
	}
	return &entity.RetailShipment{
		ID:                     rs.RetailShipmentID,
		DocumentID:             rs.DocumentID,
		MasterShipmentID:       rs.MasterShipmentID,
		RetailQuantity:         rs.RetailQuantity,
		WayBill:                wayBill,
		Wholesaler:             rs.Wholesaler,
		CurrentOwner:           rs.CurrentOwner,
		CurrentRole:            rs.CurrentRole,
		Status:                 rs.Status,
		DeviceID:               rs.DeviceID,
		TemperatureExcursion:   rs.Counters.TemperatureExcursion,
		HumidityRangeViolation: rs.Counters.HumidityRangeViolation,
		GeoLocation:            geo,
		ShippingDate:           rs.ShippingDate,
		DeliveryDate:           rs.DeliveryDate,
	}, nil
}

func toRetailDomain(po *entity.RetailShipment) (*etretail.RetailShipment, error) {
	wayBill, err := fromWayBillJSON(po.WayBill)
	if err != nil {
		return nil, err
	}
	geo, err := fromGeoJSON(po.GeoLocation)
	if err != nil {
		return nil, err
	}
	return &etretail.RetailShipment{
		RetailShipmentID: po.ID,
		MasterShipmentID: po.MasterShipmentID,
		RetailQuantity:   po.RetailQuantity,
		WayBill:          wayBill,
		Wholesaler:       po.Wholesaler,
		CurrentOwner:     po.CurrentOwner,
		CurrentRole:      po.CurrentRole,
		Status:           po.Status,
		DeviceID:         po.DeviceID,
		Counters: etrisk.Counters{
			TemperatureExcursion:   po.TemperatureExcursion,
			HumidityRangeViolation: po.HumidityRangeViolation,
		},
		Geo:          geo,
		ShippingDate: po.ShippingDate,
		DeliveryDate: po.DeliveryDate,
		DocumentID:   po.DocumentID,
	}, nil
}

func toSensorModel(sd *etsensor.SensorData) *entity.SensorData {
	return &entity.SensorData{
		DocumentID:   sd.DocumentID,
		ShipmentID:   sd.ShipmentID,
		Kind:         sd.Kind.String(),
		DeviceID:     sd.DeviceID,
		Temperature:  sd.Temperature,
		Humidity:     sd.Humidity,
		Latitude:     sd.Geo.Latitude,
		XAxis:        sd.Geo.XAxis,
		Longitude:    sd.Geo.Longitude,
		YAxis:        sd.Geo.YAxis,
		Location:     sd.Geo.Location,
		EventDate:    sd.EventDate,
		CurrentRole:  sd.CurrentRole,
		CurrentOwner: sd.CurrentOwner,
		TempHash:     sd.TempHash,
		Hash:         sd.Hash,
		CommittedAt:  sd.CommittedAt,
	}
}

func toSensorDomain(po *entity.SensorData) *etsensor.SensorData {
	kind := etshipment.KindMaster
	if po.Kind == etshipment.KindRetailLeg.String() {
		kind = etshipment.KindRetailLeg
	}
	return &etsensor.SensorData{
		ShipmentID:  po.ShipmentID,
		Kind:        kind,
		DeviceID:    po.DeviceID,
		Temperature: po.Temperature,
		Humidity:    po.Humidity,
		Geo: etgeo.Location{
			Latitude:  po.Latitude,
			XAxis:     po.XAxis,
			Longitude: po.Longitude,
			YAxis:     po.YAxis,
			Location:  po.Location,
		},
		EventDate:    po.EventDate,
		CurrentRole:  po.CurrentRole,
		CurrentOwner: po.CurrentOwner,
		TempHash:     po.TempHash,
		DocumentID:   po.DocumentID,
		CommittedAt:  po.CommittedAt,
		Hash:         po.Hash,
	}
}

func toClaimModel(c *etclaim.Claim) *entity.Claim {
	return &entity.Claim{
		DocumentID:       c.DocumentID,
		ShipmentID:       c.ShipmentID,
		PolicyID:         c.PolicyID,
		ClaimID:          c.ClaimID,
		ClaimStatus:      string(c.Status),
		ClaimRequestDate: c.RequestDate,
		InsuredValue:     c.InsuredValue,
	}
}
