package mdshipment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etrisk"
	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdalert"
	"coldchain/backend/ccmain/internal/app/domains/repo/rpledger"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
)

// ShipmentModule 运单生命周期模块（事务编排层）
// 事务体只依赖事务内读到的状态，冲突重试时可整体重放
type ShipmentModule struct {
	ledger     rpledger.Ledger
	now        etprimitive.Clock
	humidity   etrisk.HumiditySource
	defaultGeo etgeo.Location
}

// Options 模块可注入依赖
type Options struct {
	Now             etprimitive.Clock
	Humidity        etrisk.HumiditySource
	DefaultLocation string
}

// NewShipmentModule 创建运单模块
func NewShipmentModule(ledger rpledger.Ledger, opts Options) *ShipmentModule {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Humidity == nil {
		opts.Humidity = etrisk.NewRandomHumidity(time.Now().UnixNano())
	}
	if opts.DefaultLocation == "" {
		opts.DefaultLocation = "CA"
	}
	return &ShipmentModule{
		ledger:     ledger,
		now:        opts.Now,
		humidity:   opts.Humidity,
		defaultGeo: etgeo.Default(opts.DefaultLocation),
	}
}

// CreateShipment 创建运单：查重 → 插入 → 写入批次号，两次写入在同一事务内
func (m *ShipmentModule) CreateShipment(ctx context.Context, p etshipment.NewShipmentParams) (*etshipment.Shipment, error) {
	p.DefaultGeo = m.defaultGeo
	if p.GeoReading != nil {
		geo, err := etgeo.Resolve(*p.GeoReading, m.defaultGeo)
		if err != nil {
			return nil, err
		}
		p.Geo = &geo
	}
	now := m.now()
	if _, err := etshipment.NewShipment(p, now); err != nil {
		return nil, errorx.MalformedInput(err.Error())
	}

	var created *etshipment.Shipment
	err := m.ledger.ExecuteInTransaction(ctx, func(tx rpledger.Tx) error {
		s, _ := etshipment.NewShipment(p, now)

		existing, err := tx.FindShipment(s.ShipmentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errorx.DuplicateShipment(s.ShipmentID)
		}

		documentID, err := tx.InsertShipment(s)
		if err != nil {
			return err
		}
		s.BatchID = etprimitive.NormalizeID(documentID)
		if err := tx.StampBatchID(s.ShipmentID, s.BatchID); err != nil {
			return err
		}

		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetShipment 查询运单
func (m *ShipmentModule) GetShipment(ctx context.Context, shipmentID string) (*etshipment.Shipment, error) {
	id := etprimitive.NormalizeID(shipmentID)

	var found *etshipment.Shipment
	err := m.ledger.View(ctx, func(tx rpledger.View) error {
		s, err := tx.FindShipment(id)
		if err != nil {
			return err
		}
		if s == nil {
			return errorx.ShipmentNotFound(id)
		}
		found = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// CustodyTransfer 交接请求
type CustodyTransfer struct {
	ShipmentID   string
	CurrentOwner string
	CurrentRole  string
	NextRole     string
	EventType    string
	EventDesc    string
}

// TransferCustody 交接：事件入队首并更新持有方，单条更新语句完成
func (m *ShipmentModule) TransferCustody(ctx context.Context, t CustodyTransfer) (*etshipment.Shipment, error) {
	id := etprimitive.NormalizeID(t.ShipmentID)
	now := m.now()

	var updated *etshipment.Shipment
	err := m.ledger.ExecuteInTransaction(ctx, func(tx rpledger.Tx) error {
		s, err := tx.FindShipment(id)
		if err != nil {
			return err
		}
		if s == nil {
			return errorx.ShipmentNotFound(id)
		}

		s.TransferCustody(etshipment.Event{
			EventOwner:      t.CurrentOwner,
			EventRole:       t.CurrentRole,
			EventType:       t.EventType,
			EventDesc:       t.EventDesc,
			SensorCondition: etshipment.SensorConditionActive,
			EventDate:       now,
			NextRole:        t.NextRole,
		}, t.CurrentOwner, t.CurrentRole)

		if err := tx.UpdateShipment(s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TelemetryReading 传感器上报
type TelemetryReading struct {
	ShipmentID  string
	DeviceID    string
	Temperature float64
	Humidity    *float64
	Latitude    string
	Longitude   string
	Location    string
}

// TelemetryResult 上报结果，Alert 非空时由调用方在提交后发布
type TelemetryResult struct {
	ShipmentID  string
	DeviceID    string
	Temperature float64
	Kind        etshipment.Kind
	Counters    etrisk.Counters
	Alert       *mdalert.Alert
}

// RecordTelemetry 普通上报：仅主运单，只累计温度偏离，不移动运单位置
func (m *ShipmentModule) RecordTelemetry(ctx context.Context, r TelemetryReading) (*TelemetryResult, error) {
	id := etprimitive.NormalizeID(r.ShipmentID)
	deviceID := etrisk.ResolveDeviceID(r.DeviceID)
	humidity := m.humidityOf(r, etrisk.PlainHumidity)
	now := m.now()

	var result *TelemetryResult
	err := m.ledger.ExecuteInTransaction(ctx, func(tx rpledger.Tx) error {
		s, err := tx.FindShipment(id)
		if err != nil {
			return err
		}
		if s == nil {
			return errorx.ShipmentNotFound(id)
		}

		geo, err := etgeo.Resolve(readingGeo(r), s.Geo)
		if err != nil {
			return err
		}

		assessment := etrisk.Assess(s.Counters, etrisk.Reading{Temperature: r.Temperature, Humidity: humidity})
		assessment.Counters.HumidityRangeViolation = s.Counters.HumidityRangeViolation

		s.ApplyReading(deviceID, assessment, s.SensorReportEvent(assessment, reportDesc(r.Temperature, humidity), now))
		if err := tx.UpdateShipment(s); err != nil {
			return err
		}

		fact := m.sensorFact(id, etshipment.KindMaster, deviceID, r.Temperature, humidity, geo, now, s.CurrentRole, s.CurrentOwner)
		if err := tx.InsertSensorData(fact); err != nil {
			return err
		}

		result = newResult(fact, assessment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordTelemetrySimulated 完整上报：按 ID 前缀路由到主运单或零售子运单，两个计数器和位置都会更新
func (m *ShipmentModule) RecordTelemetrySimulated(ctx context.Context, r TelemetryReading) (*TelemetryResult, error) {
	id := etprimitive.NormalizeID(r.ShipmentID)
	kind := etshipment.KindOf(id)
	deviceID := etrisk.ResolveDeviceID(r.DeviceID)
	humidity := m.humidityOf(r, etrisk.SimulatedHumidity)
	now := m.now()
	reading := etrisk.Reading{Temperature: r.Temperature, Humidity: humidity}

	var result *TelemetryResult
	err := m.ledger.ExecuteInTransaction(ctx, func(tx rpledger.Tx) error {
		var (
			assessment  etrisk.Assessment
			geo         etgeo.Location
			role, owner string
		)

		switch kind {
		case etshipment.KindRetailLeg:
			rs, err := tx.FindRetailShipment(id)
			if err != nil {
				return err
			}
			if rs == nil {
				return errorx.ShipmentNotFound(id)
			}
			if geo, err = etgeo.Resolve(readingGeo(r), rs.Geo); err != nil {
				return err
			}
			assessment = etrisk.Assess(rs.Counters, reading)
			rs.ApplyReading(deviceID, assessment, geo)
			if err := tx.UpdateRetailShipment(rs); err != nil {
				return err
			}
			role, owner = rs.CurrentRole, rs.CurrentOwner

		default:
			s, err := tx.FindShipment(id)
			if err != nil {
				return err
			}
			if s == nil {
				return errorx.ShipmentNotFound(id)
			}
			if geo, err = etgeo.Resolve(readingGeo(r), s.Geo); err != nil {
				return err
			}
			assessment = etrisk.Assess(s.Counters, reading)
			s.ApplyReading(deviceID, assessment, s.SensorReportEvent(assessment, reportDesc(r.Temperature, humidity), now))
			s.Geo = geo
			if err := tx.UpdateShipment(s); err != nil {
				return err
			}
			role, owner = s.CurrentRole, s.CurrentOwner
		}

		fact := m.sensorFact(id, kind, deviceID, r.Temperature, humidity, geo, now, role, owner)
		if err := tx.InsertSensorData(fact); err != nil {
			return err
		}

		result = newResult(fact, assessment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *ShipmentModule) humidityOf(r TelemetryReading, fallback etrisk.HumidityRange) float64 {
	if r.Humidity != nil {
		return *r.Humidity
	}
	return m.humidity.Sample(fallback)
}

func (m *ShipmentModule) sensorFact(id string, kind etshipment.Kind, deviceID string, temperature, humidity float64,
	geo etgeo.Location, at time.Time, role, owner string) *etsensor.SensorData {
	return &etsensor.SensorData{
		ShipmentID:   id,
		Kind:         kind,
		DeviceID:     deviceID,
		Temperature:  temperature,
		Humidity:     humidity,
		Geo:          geo,
		EventDate:    at,
		CurrentRole:  role,
		CurrentOwner: owner,
		TempHash:     etrisk.Fingerprint(deviceID, at, temperature),
	}
}

func readingGeo(r TelemetryReading) etgeo.Reading {
	return etgeo.Reading{Latitude: r.Latitude, Longitude: r.Longitude, Location: r.Location}
}

func reportDesc(temperature, humidity float64) string {
	return fmt.Sprintf("Temperature %s, humidity %s",
		strconv.FormatFloat(temperature, 'f', -1, 64),
		strconv.FormatFloat(humidity, 'f', -1, 64))
}

func newResult(fact *etsensor.SensorData, a etrisk.Assessment) *TelemetryResult {
	res := &TelemetryResult{
		ShipmentID:  fact.ShipmentID,
		DeviceID:    fact.DeviceID,
		Temperature: fact.Temperature,
		Kind:        fact.Kind,
		Counters:    a.Counters,
	}
	if a.Alert {
		res.Alert = &mdalert.Alert{
			ShipmentID:  fact.ShipmentID,
			Kind:        fact.Kind,
			DeviceID:    fact.DeviceID,
			Temperature: fact.Temperature,
			TempHash:    fact.TempHash,
			EventDate:   fact.EventDate,
		}
	}
	return res
}
