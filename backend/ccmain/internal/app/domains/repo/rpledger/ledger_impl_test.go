package rpledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coldchain/backend/ccmain/internal/app/domains/entity/etgeo"
	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
	"coldchain/backend/ccmain/internal/app/pkg/idgen"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
	"coldchain/backend/ccmain/internal/app/pkg/metrics"
	"coldchain/backend/common/entity"
)

// newGormTestLedger 基于纯 Go SQLite 的账本，单连接串行化事务
func newGormTestLedger(t *testing.T, policy RetryPolicy) (*GormLedger, *metrics.Metrics, *observer.ObservedLogs) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.NewNop()
	l := NewGormLedger(db, idgen.NewSnowflakeIDGenerator(1), policy, logger.NewFromZap(zap.New(core)), m)
	require.NoError(t, l.AutoMigrate())
	return l, m, logs
}

func insertShipment(t *testing.T, l *GormLedger, id string) {
	t.Helper()
	err := l.ExecuteInTransaction(context.Background(), func(tx Tx) error {
		s, err := etshipment.NewShipment(etshipment.NewShipmentParams{
			ShipmentID: id,
			DefaultGeo: etgeo.Default("CA"),
		}, time.Now())
		if err != nil {
			return err
		}
		_, err = tx.InsertShipment(s)
		return err
	})
	require.NoError(t, err)
}

func rowOf(t *testing.T, l *GormLedger, id string) entity.Shipment {
	t.Helper()
	var po entity.Shipment
	require.NoError(t, l.db.Where("id = ?", id).Take(&po).Error)
	return po
}

func TestGormLedgerStampBatchIDBumpsVersion(t *testing.T) {
	l, _, _ := newGormTestLedger(t, DefaultRetryPolicy())

	var docID string
	err := l.ExecuteInTransaction(context.Background(), func(tx Tx) error {
		s, err := etshipment.NewShipment(etshipment.NewShipmentParams{
			ShipmentID: "SHP1",
			DefaultGeo: etgeo.Default("CA"),
		}, time.Now())
		if err != nil {
			return err
		}
		if docID, err = tx.InsertShipment(s); err != nil {
			return err
		}
		return tx.StampBatchID("SHP1", docID)
	})
	require.NoError(t, err)

	po := rowOf(t, l, "SHP1")
	assert.Equal(t, docID, po.BatchID)
	assert.Equal(t, int64(2), po.Version)

	err = l.ExecuteInTransaction(context.Background(), func(tx Tx) error {
		s, err := tx.FindShipment("SHP1")
		if err != nil {
			return err
		}
		s.Counters.TemperatureExcursion++
		return tx.UpdateShipment(s)
	})
	require.NoError(t, err)

	po = rowOf(t, l, "SHP1")
	assert.Equal(t, int64(3), po.Version)
	assert.Equal(t, 1, po.TemperatureExcursion)
}

func TestGormLedgerStaleVersionIsConflict(t *testing.T) {
	l, _, _ := newGormTestLedger(t, DefaultRetryPolicy())
	insertShipment(t, l, "SHP1")

	tx := l.newTx(l.db)
	s, err := tx.FindShipment("SHP1")
	require.NoError(t, err)
	require.NotNil(t, s)

	// 读取之后另一个写入者先提交
	require.NoError(t, l.db.Exec("UPDATE shipments SET version = version + 1 WHERE id = ?", "SHP1").Error)

	s.Counters.TemperatureExcursion++
	assert.ErrorIs(t, tx.UpdateShipment(s), ErrConflict)
	assert.Equal(t, 0, rowOf(t, l, "SHP1").TemperatureExcursion)
}

func TestGormLedgerRetriesStaleVersion(t *testing.T) {
	l, m, logs := newGormTestLedger(t, RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond})
	insertShipment(t, l, "SHP1")

	runs := 0
	err := l.ExecuteInTransaction(context.Background(), func(tx Tx) error {
		runs++
		s, err := tx.FindShipment("SHP1")
		if err != nil {
			return err
		}
		if runs == 1 {
			// 首次执行时版本号被并发写推进，整个事务回滚后重试
			require.NoError(t, tx.(*gormTx).db.Exec("UPDATE shipments SET version = version + 1 WHERE id = ?", "SHP1").Error)
		}
		s.Counters.TemperatureExcursion++
		return tx.UpdateShipment(s)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, runs)

	po := rowOf(t, l, "SHP1")
	assert.Equal(t, 1, po.TemperatureExcursion)
	assert.Equal(t, int64(2), po.Version)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LedgerConflictsTotal.WithLabelValues("mysql")))
	assert.Equal(t, 1, logs.FilterMessage("Retrying due to OCC conflict...").Len())
}

func TestGormLedgerDuplicateKeyIsConflict(t *testing.T) {
	l, _, _ := newGormTestLedger(t, DefaultRetryPolicy())
	insertShipment(t, l, "SHP1")

	tx := l.newTx(l.db)
	s, err := etshipment.NewShipment(etshipment.NewShipmentParams{ShipmentID: "SHP1"}, time.Now())
	require.NoError(t, err)
	_, err = tx.InsertShipment(s)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGormLedgerDuplicateInsertReportedOnRetry(t *testing.T) {
	l, _, _ := newGormTestLedger(t, RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond})
	insertShipment(t, l, "SHP1")

	runs := 0
	err := l.ExecuteInTransaction(context.Background(), func(tx Tx) error {
		runs++
		// 首次执行模拟存在性检查之后对方才插入的竞态，直接写入
		if runs > 1 {
			existing, err := tx.FindShipment("SHP1")
			if err != nil {
				return err
			}
			if existing != nil {
				return errorx.DuplicateShipment("SHP1")
			}
		}
		s, err := etshipment.NewShipment(etshipment.NewShipmentParams{ShipmentID: "SHP1"}, time.Now())
		if err != nil {
			return err
		}
		_, err = tx.InsertShipment(s)
		return err
	})
	assert.ErrorIs(t, err, errorx.ErrDuplicateShipment)
	assert.Equal(t, 2, runs)

	var n int64
	require.NoError(t, l.db.Model(&entity.Shipment{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestGormLedgerConcurrentTelemetry(t *testing.T) {
	l, _, _ := newGormTestLedger(t, RetryPolicy{MaxAttempts: 50, Backoff: time.Millisecond})
	insertShipment(t, l, "SHP1")

	const writers = 10
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < writers; i++ {
		g.Go(func() error {
			return l.ExecuteInTransaction(ctx, func(tx Tx) error {
				s, err := tx.FindShipment("SHP1")
				if err != nil {
					return err
				}
				s.Counters.TemperatureExcursion++
				if err := tx.UpdateShipment(s); err != nil {
					return err
				}
				return tx.InsertSensorData(&etsensor.SensorData{ShipmentID: "SHP1", DeviceID: "DEV-1", Temperature: -15})
			})
		})
	}
	require.NoError(t, g.Wait())

	po := rowOf(t, l, "SHP1")
	assert.Equal(t, writers, po.TemperatureExcursion)
	assert.Equal(t, int64(writers+1), po.Version)

	var facts int64
	require.NoError(t, l.db.Model(&entity.SensorData{}).Where("shipment_id = ?", "SHP1").Count(&facts).Error)
	assert.Equal(t, int64(writers), facts)
}
