package mdreport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	ledger *rpledger.MemoryLedger
	module *ReportModule
	commit time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{commit: base}
	f.ledger = rpledger.NewMemoryLedger(idgen.NewSnowflakeIDGenerator(4), rpledger.DefaultRetryPolicy(),
		logger.NewNop(), metrics.NewNop())
	f.ledger.WithClock(func() time.Time { return f.commit })
	f.module = NewReportModule(f.ledger)
	return f
}

type seed struct {
	id           string
	manufacturer string
	shippedAt    time.Time
	excursions   int
	claimedAt    *time.Time
}

func (f *fixture) addShipment(t *testing.T, sd seed) {
	t.Helper()
	require.NoError(t, f.ledger.ExecuteInTransaction(context.Background(), func(tx rpledger.Tx) error {
		s, err := etshipment.NewShipment(etshipment.NewShipmentParams{
			ShipmentID:   sd.id,
			Manufacturer: sd.manufacturer,
			PolicyID:     "POL-" + sd.id,
		}, sd.shippedAt)
		if err != nil {
			return err
		}
		s.Counters.TemperatureExcursion = sd.excursions
		if sd.claimedAt != nil {
			s.FileClaim(s.PolicyID, *sd.claimedAt)
		}
		_, err = tx.InsertShipment(s)
		return err
	}))
}

func (f *fixture) addLeg(t *testing.T, id, master string, shippedAt time.Time) {
	t.Helper()
	require.NoError(t, f.ledger.ExecuteInTransaction(context.Background(), func(tx rpledger.Tx) error {
		rs, err := etretail.NewRetailShipment(etretail.NewRetailShipmentParams{RetailShipmentID: id, MasterShipmentID: master}, shippedAt)
		if err != nil {
			return err
		}
		_, err = tx.InsertRetailShipment(rs)
		return err
	}))
}

func (f *fixture) addReading(t *testing.T, id string, committedAt time.Time, temperature, humidity float64) {
	t.Helper()
	f.commit = committedAt
	require.NoError(t, f.ledger.ExecuteInTransaction(context.Background(), func(tx rpledger.Tx) error {
		return tx.InsertSensorData(&etsensor.SensorData{
			ShipmentID:  id,
			DeviceID:    "DEV-1",
			Temperature: temperature,
			Humidity:    humidity,
			EventDate:   committedAt,
		})
	}))
}

func ids(rows []*etshipment.Shipment) []string {
	out := make([]string, 0, len(rows))
	for _, s := range rows {
		out = append(out, s.ShipmentID)
	}
	return out
}

func at(hours int) time.Time {
	return base.Add(time.Duration(hours) * time.Hour)
}

func ptr(t time.Time) *time.Time { return &t }

func TestShipmentsByParty(t *testing.T) {
	f := newFixture(t)
	f.addShipment(t, seed{id: "A1", manufacturer: "Acme", shippedAt: at(1)})
	f.addShipment(t, seed{id: "A2", manufacturer: "ACME", shippedAt: at(3)})
	f.addShipment(t, seed{id: "A0", manufacturer: "acme", shippedAt: at(3)})
	f.addShipment(t, seed{id: "B1", manufacturer: "Other", shippedAt: at(2)})

	rows, err := f.module.ShipmentsByParty(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"A0", "A2", "A1"}, ids(rows))

	_, err = f.module.ShipmentsByParty(context.Background(), "nobody")
	assert.ErrorIs(t, err, errorx.ErrReportingNotFound)
}

func TestHighRiskShipments(t *testing.T) {
	f := newFixture(t)
	f.addShipment(t, seed{id: "S1", shippedAt: at(1), excursions: 3})
	f.addShipment(t, seed{id: "S2", shippedAt: at(2), excursions: 2})
	f.addShipment(t, seed{id: "S3", shippedAt: at(3), excursions: 7})

	rows, err := f.module.HighRiskShipments(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"S3", "S1"}, ids(rows))

	n, err := f.module.CountHighRisk(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestRecentClaimsTruncatesToThree(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 5; i++ {
		f.addShipment(t, seed{id: fmt.Sprintf("S%d", i), shippedAt: at(0), claimedAt: ptr(at(i))})
	}
	f.addShipment(t, seed{id: "S9", shippedAt: at(0)})

	rows, err := f.module.RecentClaims(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"S5", "S4", "S3"}, ids(rows))

	n, err := f.module.CountClaims(context.Background(), "")
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestRecentShipmentsMixesLegs(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 8; i++ {
		f.addShipment(t, seed{id: fmt.Sprintf("S%02d", i), shippedAt: at(i)})
	}
	f.addLeg(t, "RS1", "S00", at(20))
	f.addLeg(t, "RS2", "S00", at(7))
	f.addLeg(t, "RS3", "S00", at(0))

	rows, err := f.module.RecentShipments(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, RecentShipmentsLimit)
	assert.Equal(t, "RS1", rows[0].ShipmentID)
	assert.Equal(t, etshipment.KindRetailLeg, rows[0].Kind)
	assert.Equal(t, "RS2", rows[1].ShipmentID)
	assert.Equal(t, "S07", rows[2].ShipmentID)
	assert.Equal(t, etshipment.KindMaster, rows[2].Kind)
	assert.Equal(t, "RS3", rows[9].ShipmentID)
}

func TestRecentShipmentsEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := f.module.RecentShipments(context.Background())
	assert.ErrorIs(t, err, errorx.ErrReportingNotFound)
}

func TestSeriesOrderedByCommitTime(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.addReading(t, "SHP1", at(i), float64(-20+i), float64(40+i))
	}

	temps, err := f.module.TemperatureSeries(context.Background(), "shp1")
	require.NoError(t, err)
	require.Len(t, temps, SeriesLimit)
	assert.Equal(t, SeriesPoint{At: at(11), Value: -9}, temps[0])
	assert.Equal(t, at(2), temps[9].At)

	hums, err := f.module.HumiditySeries(context.Background(), "SHP1")
	require.NoError(t, err)
	assert.Equal(t, 51.0, hums[0].Value)

	latest, err := f.module.LatestReading(context.Background(), "SHP1")
	require.NoError(t, err)
	assert.Equal(t, -9.0, latest.Temperature)
	assert.Len(t, latest.Hash, 64)

	trail, err := f.module.AuditTrail(context.Background(), "SHP1")
	require.NoError(t, err)
	assert.Len(t, trail, 12)
}

func TestSeriesEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := f.module.TemperatureSeries(context.Background(), "SHP1")
	assert.ErrorIs(t, err, errorx.ErrReportingNotFound)
	_, err = f.module.AuditTrail(context.Background(), "SHP1")
	assert.ErrorIs(t, err, errorx.ErrReportingNotFound)
	_, err = f.module.LatestReading(context.Background(), "SHP1")
	assert.ErrorIs(t, err, errorx.ErrReportingNotFound)
}

func TestCountsNeverFail(t *testing.T) {
	f := newFixture(t)

	n, err := f.module.CountShipments(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = f.module.CountClaims(context.Background(), "acme")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCountShipmentsByParty(t *testing.T) {
	f := newFixture(t)
	f.addShipment(t, seed{id: "A1", manufacturer: "Acme", shippedAt: at(1)})
	f.addShipment(t, seed{id: "B1", shippedAt: at(1)})

	n, err := f.module.CountShipments(context.Background(), "ACME")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = f.module.CountShipments(context.Background(), "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestRiskMapAndMovements(t *testing.T) {
	f := newFixture(t)
	f.addShipment(t, seed{id: "S2", shippedAt: at(1), excursions: etrisk.HighRiskExcursions})
	f.addShipment(t, seed{id: "S1", shippedAt: at(2)})

	rows, err := f.module.RiskMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, ids(rows))

	overview, err := f.module.ClaimsOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, ids(overview))

	mv, err := f.module.ShipmentMovements(context.Background(), "s2")
	require.NoError(t, err)
	assert.Len(t, mv.Events, 1)

	_, err = f.module.ShipmentMovements(context.Background(), "S404")
	assert.ErrorIs(t, err, errorx.ErrReportingNotFound)
}

func TestShipmentLocations(t *testing.T) {
	f := newFixture(t)
	f.addShipment(t, seed{id: "A1", manufacturer: "Acme", shippedAt: at(1)})

	rows, err := f.module.ShipmentLocations(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, ids(rows))

	_, err = f.module.ShipmentLocations(context.Background(), "Other")
	assert.ErrorIs(t, err, errorx.ErrReportingNotFound)
}
