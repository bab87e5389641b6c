package request

import (
	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etretail"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdclaim"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdshipment"
)

// ToShipmentParams 将 Request DTO 转换为运单创建参数
// 登记位置的缺项由模块按配置的默认位置补齐
func (r *CreateShipmentRequest) ToShipmentParams() etshipment.NewShipmentParams {
	p := etshipment.NewShipmentParams{
		ShipmentID:   r.ShipmentID,
		VaccineName:  r.VaccineName,
		Quantity:     r.Quantity,
		Manufacturer: r.Manufacturer,
		PolicyID:     r.PolicyID,
		Insurer:      r.Insurer,
		InsuredValue: r.InsuredValue,
		WayBill:      toWayBillEntity(r.WayBill),
	}

	if r.GeoLocation != nil {
		p.GeoReading = &etgeo.Reading{
			Latitude:  r.GeoLocation.Latitude,
			Longitude: r.GeoLocation.Longitude,
			Location:  r.GeoLocation.Location,
		}
	}
	return p
}

// ToCustodyTransfer 转换为交接参数
func (r *TransferCustodyRequest) ToCustodyTransfer(shipmentID string) mdshipment.CustodyTransfer {
	return mdshipment.CustodyTransfer{
		ShipmentID:   shipmentID,
		CurrentOwner: r.CurrentOwner,
		CurrentRole:  r.CurrentRole,
		NextRole:     r.NextRole,
		EventType:    r.EventType,
		EventDesc:    r.EventDesc,
	}
}

// ToReading 转换为传感器读数
func (r *TelemetryRequest) ToReading(shipmentID string) mdshipment.TelemetryReading {
	reading := mdshipment.TelemetryReading{
		ShipmentID: shipmentID,
		DeviceID:   r.DeviceID,
		Humidity:   r.Humidity,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Location:   r.Location,
	}
	if r.Temperature != nil {
		reading.Temperature = *r.Temperature
	}
	return reading
}

// ToRetailParams 转换为零售子运单创建参数
func (r *CreateRetailShipmentRequest) ToRetailParams() etretail.NewRetailShipmentParams {
	return etretail.NewRetailShipmentParams{
		RetailShipmentID: r.RetailShipmentID,
		MasterShipmentID: r.ShipmentID,
		RetailQuantity:   r.RetailQuantity,
		WayBill:          toWayBillEntity(r.WayBill),
		Wholesaler:       r.Wholesaler,
	}
}

// ToClaimRequest 转换为理赔参数
func (r *FileClaimRequest) ToClaimRequest() mdclaim.ClaimRequest {
	return mdclaim.ClaimRequest{
		ShipmentID:   r.ShipmentID,
		PolicyID:     r.PolicyID,
		InsuredValue: r.InsuredValue,
	}
}

func toWayBillEntity(dto *WayBill) etshipment.WayBill {
	if dto == nil {
		return etshipment.WayBill{}
	}
	return etshipment.WayBill{
		Origin:             dto.Origin,
		OriginRole:         dto.OriginRole,
		OriginAddress:      dto.OriginAddress,
		Destination:        dto.Destination,
		DestinationRole:    dto.DestinationRole,
		DestinationAddress: dto.DestinationAddress,
		Logistics:          dto.Logistics,
	}
}
