package response

import (
	"coldchain/backend/ccmain/internal/app/domains/entity/etclaim"
	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etretail"
	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdreport"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdshipment"
)

// FromShipmentEntity 从领域对象转换为响应 DTO
func FromShipmentEntity(s *etshipment.Shipment) *ShipmentResponse {
	resp := &ShipmentResponse{
		ShipmentID:             s.ShipmentID,
		VaccineName:            s.VaccineName,
		Quantity:               s.Quantity,
		ShippingDate:           etprimitive.FormatISO(s.ShippingDate),
		Manufacturer:           s.Manufacturer,
		CurrentOwner:           s.CurrentOwner,
		CurrentRole:            s.CurrentRole,
		Status:                 s.Status,
		DeviceID:               s.DeviceID,
		TemperatureExcursion:   s.Counters.TemperatureExcursion,
		HumidityRangeViolation: s.Counters.HumidityRangeViolation,
		PolicyID:               s.PolicyID,
		Insurer:                s.Insurer,
		InsuredValue:           s.InsuredValue.String(),
		ClaimStatus:            string(s.Claim.Status),
		TrackerEvents:          fromEvents(s.Events),
		WayBill:                fromWayBill(s.WayBill),
		GeoLocation:            fromGeo(s.Geo),
		BatchID:                s.BatchID,
	}
	if s.Claim.Active() {
		resp.ClaimID = s.Claim.ClaimID
		resp.ClaimRequestDate = etprimitive.FormatISO(s.Claim.RequestDate)
	}
	return resp
}

// FromCustodyTransfer 交接回执，response 为事件描述
func FromCustodyTransfer(s *etshipment.Shipment, t mdshipment.CustodyTransfer) *CustodyResponse {
	return &CustodyResponse{
		ShipmentID:  s.ShipmentID,
		CurrentRole: s.CurrentRole,
		NextRole:    t.NextRole,
		Response:    t.EventDesc,
	}
}

// FromTelemetryResult 上报回执
func FromTelemetryResult(r *mdshipment.TelemetryResult) *TelemetryResponse {
	return &TelemetryResponse{
		ShipmentID: r.ShipmentID,
		DeviceID:   r.DeviceID,
		Response:   r.Temperature,
		Alert:      r.Alert != nil,
	}
}

// FromRetailEntity 零售子运单 DTO
func FromRetailEntity(rs *etretail.RetailShipment) *RetailShipmentResponse {
	resp := &RetailShipmentResponse{
		RetailShipmentID:       rs.RetailShipmentID,
		ShipmentID:             rs.MasterShipmentID,
		RetailQuantity:         rs.RetailQuantity,
		Wholesaler:             rs.Wholesaler,
		CurrentOwner:           rs.CurrentOwner,
		CurrentRole:            rs.CurrentRole,
		Status:                 rs.Status,
		DeviceID:               rs.DeviceID,
		TemperatureExcursion:   rs.Counters.TemperatureExcursion,
		HumidityRangeViolation: rs.Counters.HumidityRangeViolation,
		ShippingDate:           etprimitive.FormatISO(rs.ShippingDate),
		WayBill:                fromWayBill(rs.WayBill),
		GeoLocation:            fromGeo(rs.Geo),
	}
	if rs.DeliveryDate != nil {
		resp.DeliveryDate = etprimitive.FormatISO(*rs.DeliveryDate)
	}
	return resp
}

// FromProvenance 溯源 DTO
func FromProvenance(p *etretail.Provenance) *ProvenanceResponse {
	legs := make([]*RetailShipmentResponse, 0, len(p.ChildLegs))
	for _, rs := range p.ChildLegs {
		legs = append(legs, FromRetailEntity(rs))
	}
	return &ProvenanceResponse{
		OriginLeg: OriginLegResponse{
			ShipmentID: p.OriginLeg.ShipmentID,
			BatchID:    p.OriginLeg.BatchID,
			DeviceID:   p.OriginLeg.DeviceID,
			WayBill:    fromWayBill(p.OriginLeg.WayBill),
		},
		ChildLegs: legs,
	}
}

// FromClaimEntity 理赔回执
func FromClaimEntity(c *etclaim.Claim, message string) *ClaimResponse {
	return &ClaimResponse{
		ShipmentID: c.ShipmentID,
		ClaimID:    c.ClaimID,
		Response:   message,
	}
}

// FromShipmentRows 运单报表
func FromShipmentRows(rows []*etshipment.Shipment) []*ShipmentRow {
	out := make([]*ShipmentRow, 0, len(rows))
	for _, s := range rows {
		row := &ShipmentRow{
			ShipmentID:       s.ShipmentID,
			ShippingDate:     etprimitive.FormatISO(s.ShippingDate),
			Insurer:          s.Insurer,
			PolicyID:         s.PolicyID,
			ClaimStatus:      string(s.Claim.Status),
			Manufacturer:     s.Manufacturer,
			Vaccine:          s.VaccineName,
			Qty:              s.Quantity,
			Origin:           s.WayBill.Origin,
			Destination:      s.WayBill.Destination,
			InsuredValue:     s.InsuredValue.String(),
			Status:           s.Status,
			TemperatureAlert: s.Counters.TemperatureExcursion,
			CurrentLocation:  s.CurrentRole,
			Latitude:         s.Geo.Latitude,
			Longitude:        s.Geo.Longitude,
			XAxis:            s.Geo.XAxis,
			YAxis:            s.Geo.YAxis,
			Location:         s.Geo.Location,
		}
		if s.Claim.Active() {
			row.ClaimID = s.Claim.ClaimID
			row.ClaimRequestDate = etprimitive.FormatISO(s.Claim.RequestDate)
		}
		out = append(out, row)
	}
	return out
}

// FromRiskRows 风险地图
func FromRiskRows(rows []*etshipment.Shipment) []*RiskRow {
	out := make([]*RiskRow, 0, len(rows))
	for _, s := range rows {
		out = append(out, &RiskRow{
			ShipmentID:       s.ShipmentID,
			TemperatureAlert: s.Counters.TemperatureExcursion,
			Latitude:         s.Geo.Latitude,
			Longitude:        s.Geo.Longitude,
			XAxis:            s.Geo.XAxis,
			YAxis:            s.Geo.YAxis,
			Location:         s.Geo.Location,
		})
	}
	return out
}

// FromRecentShipments 最近运单
func FromRecentShipments(rows []mdreport.RecentShipment) []*RecentShipmentRow {
	out := make([]*RecentShipmentRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, &RecentShipmentRow{
			ShipmentID:   r.ShipmentID,
			ShippingDate: etprimitive.FormatISO(r.ShippingDate),
			Kind:         r.Kind.String(),
		})
	}
	return out
}

// FromTemperatureSeries 温度序列
func FromTemperatureSeries(points []mdreport.SeriesPoint) []*TemperatureRow {
	out := make([]*TemperatureRow, 0, len(points))
	for _, p := range points {
		out = append(out, &TemperatureRow{DateTime: etprimitive.FormatISO(p.At), Temperature: p.Value})
	}
	return out
}

// FromHumiditySeries 湿度序列
func FromHumiditySeries(points []mdreport.SeriesPoint) []*HumidityRow {
	out := make([]*HumidityRow, 0, len(points))
	for _, p := range points {
		out = append(out, &HumidityRow{DateTime: etprimitive.FormatISO(p.At), Humidity: p.Value})
	}
	return out
}

// FromSensorData 单条传感器事实
func FromSensorData(sd *etsensor.SensorData) *AuditRow {
	return &AuditRow{
		ShipmentID:   sd.ShipmentID,
		DateTime:     etprimitive.FormatISO(sd.CommittedAt),
		CurrentOwner: sd.CurrentOwner,
		CurrentRole:  sd.CurrentRole,
		DeviceID:     sd.DeviceID,
		Temperature:  sd.Temperature,
		Humidity:     sd.Humidity,
		Latitude:     sd.Geo.Latitude,
		Longitude:    sd.Geo.Longitude,
		Location:     sd.Geo.Location,
		EventDate:    etprimitive.FormatISO(sd.EventDate),
		DocumentID:   sd.DocumentID,
		Hash:         sd.Hash,
		TempHash:     sd.TempHash,
	}
}

// FromAuditTrail 审计轨迹
func FromAuditTrail(facts []*etsensor.SensorData) []*AuditRow {
	out := make([]*AuditRow, 0, len(facts))
	for _, sd := range facts {
		out = append(out, FromSensorData(sd))
	}
	return out
}

// FromMovements 运单流转
func FromMovements(s *etshipment.Shipment) *MovementsResponse {
	return &MovementsResponse{
		ShipmentID:    s.ShipmentID,
		Status:        s.Status,
		Manufacturer:  s.Manufacturer,
		VaccineName:   s.VaccineName,
		CurrentOwner:  s.CurrentRole,
		TrackerEvents: fromEvents(s.Events),
	}
}

func fromEvents(events []etshipment.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, EventResponse{
			EventOwner:      ev.EventOwner,
			EventRole:       ev.EventRole,
			EventType:       ev.EventType,
			EventDesc:       ev.EventDesc,
			SensorCondition: ev.SensorCondition,
			EventDate:       etprimitive.FormatISO(ev.EventDate),
			NextRole:        ev.NextRole,
		})
	}
	return out
}

func fromWayBill(w etshipment.WayBill) WayBill {
	return WayBill{
		Origin:             w.Origin,
		OriginRole:         w.OriginRole,
		OriginAddress:      w.OriginAddress,
		Destination:        w.Destination,
		DestinationRole:    w.DestinationRole,
		DestinationAddress: w.DestinationAddress,
		Logistics:          w.Logistics,
	}
}

func fromGeo(g etgeo.Location) GeoLocation {
	return GeoLocation{
		Latitude:  g.Latitude,
		XAxis:     g.XAxis,
		Longitude: g.Longitude,
		YAxis:     g.YAxis,
		Location:  g.Location,
	}
}
