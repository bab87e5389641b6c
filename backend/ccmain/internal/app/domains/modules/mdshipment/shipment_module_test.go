package mdshipment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etretail"
	"coldchain/backend/ccmain/internal/app/domains/entity/etrisk"
	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/domains/repo/rpledger"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
	"coldchain/backend/ccmain/internal/app/pkg/idgen"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
	"coldchain/backend/ccmain/internal/app/pkg/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func newTestModule(t *testing.T, humidity float64) (*ShipmentModule, *rpledger.MemoryLedger) {
	t.Helper()
	ledger := rpledger.NewMemoryLedger(idgen.NewSnowflakeIDGenerator(1),
		rpledger.RetryPolicy{MaxAttempts: 1000, Backoff: 100 * time.Microsecond},
		logger.NewNop(), metrics.NewNop())
	m := NewShipmentModule(ledger, Options{
		Now:             func() time.Time { return fixedNow },
		Humidity:        etrisk.FixedHumidity(humidity),
		DefaultLocation: "CA",
	})
	return m, ledger
}

func createShipment(t *testing.T, m *ShipmentModule, id string) *etshipment.Shipment {
	t.Helper()
	s, err := m.CreateShipment(context.Background(), etshipment.NewShipmentParams{
		ShipmentID:   id,
		VaccineName:  "Covax",
		Quantity:     100,
		PolicyID:     "POL-1",
		Insurer:      "Acme",
		InsuredValue: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	return s
}

func sensorFacts(t *testing.T, ledger *rpledger.MemoryLedger, id string) []*etsensor.SensorData {
	t.Helper()
	var facts []*etsensor.SensorData
	require.NoError(t, ledger.View(context.Background(), func(tx rpledger.View) error {
		var err error
		facts, err = tx.ListSensorData(id)
		return err
	}))
	return facts
}

func TestCreateShipmentStampsBatchID(t *testing.T) {
	m, _ := newTestModule(t, 50)

	s := createShipment(t, m, " shp1 ")
	assert.Equal(t, "SHP1", s.ShipmentID)
	assert.NotEmpty(t, s.BatchID)
	assert.Equal(t, s.BatchID, s.DocumentID)

	got, err := m.GetShipment(context.Background(), "shp1")
	require.NoError(t, err)
	assert.Equal(t, s.BatchID, got.BatchID)
	assert.Equal(t, etshipment.DefaultManufacturer, got.CurrentOwner)
	assert.Equal(t, etshipment.RoleManufacturer, got.CurrentRole)
	assert.Equal(t, "CA", got.Geo.Location)
	require.Len(t, got.Events, 1)
	assert.Equal(t, etshipment.EventTypeShipping, got.Events[0].EventType)
}

func TestCreateShipmentRejectsDuplicate(t *testing.T) {
	m, _ := newTestModule(t, 50)
	createShipment(t, m, "SHP1")

	_, err := m.CreateShipment(context.Background(), etshipment.NewShipmentParams{ShipmentID: "shp1"})
	assert.ErrorIs(t, err, errorx.ErrDuplicateShipment)
}

func TestCreateShipmentRejectsRetailPrefix(t *testing.T) {
	m, _ := newTestModule(t, 50)

	_, err := m.CreateShipment(context.Background(), etshipment.NewShipmentParams{ShipmentID: "RS1"})
	assert.ErrorIs(t, err, errorx.ErrMalformedInput)
}

func TestCreateShipmentFillsGeoFromDefaultLocation(t *testing.T) {
	m, _ := newTestModule(t, 50)

	s, err := m.CreateShipment(context.Background(), etshipment.NewShipmentParams{
		ShipmentID: "SHP1",
		GeoReading: &etgeo.Reading{Latitude: "-33.8688", Longitude: "151.2093° E"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CA", s.Geo.Location)
	assert.InDelta(t, -33.8688, s.Geo.XAxis, 1e-9)
	assert.InDelta(t, 151.2093, s.Geo.YAxis, 1e-9)

	s, err = m.CreateShipment(context.Background(), etshipment.NewShipmentParams{
		ShipmentID: "SHP2",
		GeoReading: &etgeo.Reading{Location: "NY"},
	})
	require.NoError(t, err)
	assert.Equal(t, "NY", s.Geo.Location)
	assert.Equal(t, "12.9716° N", s.Geo.Latitude)
}

func TestCreateShipmentRejectsMalformedGeo(t *testing.T) {
	m, _ := newTestModule(t, 50)

	_, err := m.CreateShipment(context.Background(), etshipment.NewShipmentParams{
		ShipmentID: "SHP1",
		GeoReading: &etgeo.Reading{Latitude: "north"},
	})
	assert.ErrorIs(t, err, errorx.ErrMalformedInput)
}

func TestGetShipmentNotFound(t *testing.T) {
	m, _ := newTestModule(t, 50)

	_, err := m.GetShipment(context.Background(), "NOPE")
	assert.ErrorIs(t, err, errorx.ErrShipmentNotFound)
}

func TestTransferCustodyPrependsEvent(t *testing.T) {
	m, _ := newTestModule(t, 50)
	createShipment(t, m, "SHP1")

	s, err := m.TransferCustody(context.Background(), CustodyTransfer{
		ShipmentID:   "shp1",
		CurrentOwner: "ABC-Wholesaler",
		CurrentRole:  etshipment.RoleWholesaler,
		NextRole:     "Retailer",
		EventType:    "RECEIVED",
		EventDesc:    "Received at warehouse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC-Wholesaler", s.CurrentOwner)

	got, err := m.GetShipment(context.Background(), "SHP1")
	require.NoError(t, err)
	require.Len(t, got.Events, 2)
	assert.Equal(t, "RECEIVED", got.Events[0].EventType)
	assert.Equal(t, "Retailer", got.Events[0].NextRole)
	assert.Equal(t, etshipment.SensorConditionActive, got.Events[0].SensorCondition)
	assert.Equal(t, etshipment.RoleWholesaler, got.CurrentRole)
}

func TestTransferCustodyMissingShipment(t *testing.T) {
	m, _ := newTestModule(t, 50)

	_, err := m.TransferCustody(context.Background(), CustodyTransfer{ShipmentID: "NOPE"})
	assert.ErrorIs(t, err, errorx.ErrShipmentNotFound)
}

func TestRecordTelemetryExcursion(t *testing.T) {
	m, ledger := newTestModule(t, 90)
	createShipment(t, m, "SHP1")

	res, err := m.RecordTelemetry(context.Background(), TelemetryReading{
		ShipmentID:  "shp1",
		DeviceID:    "undefined",
		Temperature: -10,
		Latitude:    "10° S",
	})
	require.NoError(t, err)
	assert.Equal(t, etrisk.SimulatedDeviceID, res.DeviceID)
	require.NotNil(t, res.Alert)
	assert.Equal(t, "SHP1", res.Alert.ShipmentID)
	assert.Equal(t, "SIM-999992025-03-04T05:06:07.000Z-10", res.Alert.TempHash)

	got, err := m.GetShipment(context.Background(), "SHP1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Counters.TemperatureExcursion)
	// 普通上报不累计湿度，也不移动运单
	assert.Equal(t, 0, got.Counters.HumidityRangeViolation)
	assert.Equal(t, "12.9716° N", got.Geo.Latitude)
	assert.Equal(t, etshipment.EventTypeSensorReport, got.Events[0].EventType)
	assert.Equal(t, etrisk.ConditionAbnormal, got.Events[0].SensorCondition)

	facts := sensorFacts(t, ledger, "SHP1")
	require.Len(t, facts, 1)
	assert.Equal(t, -10.0, facts[0].Geo.XAxis)
	assert.Equal(t, float64(90), facts[0].Humidity)
	assert.Len(t, facts[0].Hash, 64)
}

func TestRecordTelemetryNormalReadingHasNoAlert(t *testing.T) {
	m, _ := newTestModule(t, 50)
	createShipment(t, m, "SHP1")

	res, err := m.RecordTelemetry(context.Background(), TelemetryReading{ShipmentID: "SHP1", DeviceID: "DEV-1", Temperature: -20})
	require.NoError(t, err)
	assert.Nil(t, res.Alert)
	assert.Equal(t, "DEV-1", res.DeviceID)
}

func TestRecordTelemetryRejectsMalformedCoordinate(t *testing.T) {
	m, ledger := newTestModule(t, 50)
	createShipment(t, m, "SHP1")

	_, err := m.RecordTelemetry(context.Background(), TelemetryReading{ShipmentID: "SHP1", Temperature: 0, Latitude: "north"})
	assert.ErrorIs(t, err, errorx.ErrMalformedInput)
	assert.Empty(t, sensorFacts(t, ledger, "SHP1"))
}

func TestRecordTelemetrySimulatedMaster(t *testing.T) {
	m, _ := newTestModule(t, 70)
	createShipment(t, m, "SHP1")

	_, err := m.RecordTelemetrySimulated(context.Background(), TelemetryReading{
		ShipmentID:  "SHP1",
		DeviceID:    "DEV-1",
		Temperature: -12,
		Longitude:   "40.5° W",
		Location:    "NV",
	})
	require.NoError(t, err)

	got, err := m.GetShipment(context.Background(), "SHP1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Counters.TemperatureExcursion)
	assert.Equal(t, 1, got.Counters.HumidityRangeViolation)
	assert.Equal(t, -40.5, got.Geo.YAxis)
	assert.Equal(t, "NV", got.Geo.Location)
	assert.Equal(t, "12.9716° N", got.Geo.Latitude)
	assert.Equal(t, etrisk.ConditionNormal, got.Events[0].SensorCondition)
}

func TestRecordTelemetrySimulatedRetailLeg(t *testing.T) {
	m, ledger := newTestModule(t, 75)
	require.NoError(t, ledger.ExecuteInTransaction(context.Background(), func(tx rpledger.Tx) error {
		rs, err := etretail.NewRetailShipment(etretail.NewRetailShipmentParams{
			RetailShipmentID: "RS1",
			MasterShipmentID: "SHP1",
		}, fixedNow)
		if err != nil {
			return err
		}
		_, err = tx.InsertRetailShipment(rs)
		return err
	}))

	res, err := m.RecordTelemetrySimulated(context.Background(), TelemetryReading{
		ShipmentID:  "rs1",
		Temperature: 2,
		Latitude:    "33.1° N",
		Longitude:   "96.2° W",
	})
	require.NoError(t, err)
	assert.Equal(t, etshipment.KindRetailLeg, res.Kind)
	require.NotNil(t, res.Alert)
	assert.Equal(t, etshipment.KindRetailLeg, res.Alert.Kind)

	require.NoError(t, ledger.View(context.Background(), func(tx rpledger.View) error {
		rs, err := tx.FindRetailShipment("RS1")
		require.NoError(t, err)
		assert.Equal(t, etrisk.Counters{TemperatureExcursion: 1, HumidityRangeViolation: 1}, rs.Counters)
		assert.Equal(t, etrisk.SimulatedDeviceID, rs.DeviceID)
		assert.Equal(t, 33.1, rs.Geo.XAxis)
		assert.Equal(t, -96.2, rs.Geo.YAxis)
		return nil
	}))

	facts := sensorFacts(t, ledger, "RS1")
	require.Len(t, facts, 1)
	assert.Equal(t, etshipment.KindRetailLeg, facts[0].Kind)
	assert.Equal(t, etshipment.RoleWholesaler, facts[0].CurrentRole)
}

func TestRecordTelemetrySimulatedUnknownLeg(t *testing.T) {
	m, _ := newTestModule(t, 50)

	_, err := m.RecordTelemetrySimulated(context.Background(), TelemetryReading{ShipmentID: "RS404"})
	assert.ErrorIs(t, err, errorx.ErrShipmentNotFound)
}

func TestRecordTelemetryExplicitHumidity(t *testing.T) {
	m, ledger := newTestModule(t, 10)
	createShipment(t, m, "SHP1")

	humidity := 71.5
	_, err := m.RecordTelemetrySimulated(context.Background(), TelemetryReading{ShipmentID: "SHP1", Temperature: -30, Humidity: &humidity})
	require.NoError(t, err)

	facts := sensorFacts(t, ledger, "SHP1")
	require.Len(t, facts, 1)
	assert.Equal(t, 71.5, facts[0].Humidity)
}

func TestConcurrentReadingsAreAllCounted(t *testing.T) {
	m, ledger := newTestModule(t, 80)
	createShipment(t, m, "SHP1")

	const readings = 20
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < readings; i++ {
		g.Go(func() error {
			_, err := m.RecordTelemetrySimulated(ctx, TelemetryReading{ShipmentID: "SHP1", DeviceID: "DEV-1", Temperature: 5})
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := m.GetShipment(context.Background(), "SHP1")
	require.NoError(t, err)
	assert.Equal(t, readings, got.Counters.TemperatureExcursion)
	assert.Equal(t, readings, got.Counters.HumidityRangeViolation)
	assert.Len(t, got.Events, readings+1)
	assert.True(t, got.HighRisk())
	assert.Len(t, sensorFacts(t, ledger, "SHP1"), readings)
}
