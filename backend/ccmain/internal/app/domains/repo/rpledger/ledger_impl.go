package rpledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"coldchain/backend/common/entity"
	"coldchain/backend/ccmain/internal/app/domains/entity/etclaim"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etretail"
	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/pkg/idgen"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
	"coldchain/backend/ccmain/internal/app/pkg/metrics"
)

// GormLedger 账本实现（MySQL），每行带 version 列做乐观并发控制
type GormLedger struct {
	db      *gorm.DB
	ids     *idgen.SnowflakeIDGenerator
	retrier *retrier
	now     etprimitive.Clock
}

// NewGormLedger 创建 MySQL 账本实例
// db 需以 gorm.Config{TranslateError: true} 打开，唯一键冲突才能识别为并发冲突
func NewGormLedger(db *gorm.DB, ids *idgen.SnowflakeIDGenerator, policy RetryPolicy, log logger.Logger, m *metrics.Metrics) *GormLedger {
	return &GormLedger{
		db:      db,
		ids:     ids,
		retrier: newRetrier(policy, "mysql", log, m),
		now:     time.Now,
	}
}

// AutoMigrate 同步表结构
func (l *GormLedger) AutoMigrate() error {
	return l.db.AutoMigrate(
		&entity.Shipment{},
		&entity.RetailShipment{},
		&entity.SensorData{},
		&entity.Claim{},
	)
}

// ExecuteInTransaction 在数据库事务中执行 fn，冲突时整体重试
func (l *GormLedger) ExecuteInTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return l.retrier.run(ctx, func() error {
		return l.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
			return fn(l.newTx(db))
		})
	})
}

// View 在只读事务中执行 fn
func (l *GormLedger) View(ctx context.Context, fn func(tx View) error) error {
	return l.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(l.newTx(db))
	}, &sql.TxOptions{ReadOnly: true})
}

func (l *GormLedger) newTx(db *gorm.DB) *gormTx {
	return &gormTx{db: db, ledger: l, versions: make(map[string]int64)}
}

// gormTx 单次事务，记录本事务读到的版本号
type gormTx struct {
	db       *gorm.DB
	ledger   *GormLedger
	versions map[string]int64
}

func (tx *gormTx) FindShipment(shipmentID string) (*etshipment.Shipment, error) {
	var po entity.Shipment
	err := tx.db.Where("id = ?", shipmentID).Take(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	tx.versions[shipmentKey(po.ID)] = po.Version
	return toShipmentDomain(&po)
}

func (tx *gormTx) FindRetailShipment(retailShipmentID string) (*etretail.RetailShipment, error) {
	var po entity.RetailShipment
	err := tx.db.Where("id = ?", retailShipmentID).Take(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	tx.versions[retailKey(po.ID)] = po.Version
	return toRetailDomain(&po)
}

func (tx *gormTx) shipmentScope(q ShipmentQuery) *gorm.DB {
	db := tx.db.Model(&entity.Shipment{})
	if q.Manufacturer != "" {
		db = db.Where("UPPER(manufacturer) = ?", etprimitive.NormalizeID(q.Manufacturer))
	}
	if q.MinExcursions > 0 {
		db = db.Where("temperature_excursion >= ?", q.MinExcursions)
	}
	if q.ClaimedOnly {
		db = db.Where("UPPER(claim_id) <> ?", entity.ClaimIDNone)
	}
	return db
}

func (tx *gormTx) ListShipments(q ShipmentQuery) ([]*etshipment.Shipment, error) {
	var pos []entity.Shipment
	if err := tx.shipmentScope(q).Find(&pos).Error; err != nil {
		return nil, err
	}
	out := make([]*etshipment.Shipment, 0, len(pos))
	for i := range pos {
		s, err := toShipmentDomain(&pos[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (tx *gormTx) CountShipments(q ShipmentQuery) (int64, error) {
	var n int64
	err := tx.shipmentScope(q).Count(&n).Error
	return n, err
}

func (tx *gormTx) ListRetailShipments(masterID string) ([]*etretail.RetailShipment, error) {
	db := tx.db.Model(&entity.RetailShipment{})
	if masterID != "" {
		db = db.Where("master_shipment_id = ?", masterID)
	}
	var pos []entity.RetailShipment
	if err := db.Find(&pos).Error; err != nil {
		return nil, err
	}
	out := make([]*etretail.RetailShipment, 0, len(pos))
	for i := range pos {
		rs, err := toRetailDomain(&pos[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, nil
}

func (tx *gormTx) ListSensorData(shipmentID string) ([]*etsensor.SensorData, error) {
	var pos []entity.SensorData
	if err := tx.db.Where("shipment_id = ?", shipmentID).Find(&pos).Error; err != nil {
		return nil, err
	}
	out := make([]*etsensor.SensorData, 0, len(pos))
	for i := range pos {
		out = append(out, toSensorDomain(&pos[i]))
	}
	return out, nil
}

// create 插入新行，唯一键冲突视为并发冲突，由重试后的事务体识别重复
func (tx *gormTx) create(value interface{}) error {
	err := tx.db.Create(value).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// guardedUpdate 带版本号条件的更新，未命中即为并发冲突
func (tx *gormTx) guardedUpdate(model interface{}, key, id string, updates map[string]interface{}) error {
	version, ok := tx.versions[key]
	if !ok {
		return fmt.Errorf("ledger: %s updated without being read in this transaction", key)
	}
	updates["version"] = version + 1
	updates["updated_at"] = tx.ledger.now()

	res := tx.db.Model(model).Where("id = ? AND version = ?", id, version).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	tx.versions[key] = version + 1
	return nil
}

func (tx *gormTx) InsertShipment(s *etshipment.Shipment) (string, error) {
	s.DocumentID = tx.ledger.ids.NextDocumentID()
	po, err := toShipmentModel(s)
	if err != nil {
		return "", err
	}
	po.Version = 1
	if err := tx.create(po); err != nil {
		return "", err
	}
	tx.versions[shipmentKey(po.ID)] = po.Version
	return s.DocumentID, nil
}

func (tx *gormTx) StampBatchID(shipmentID, batchID string) error {
	return tx.guardedUpdate(&entity.Shipment{}, shipmentKey(shipmentID), shipmentID, map[string]interface{}{
		"batch_id": batchID,
	})
}

func (tx *gormTx) UpdateShipment(s *etshipment.Shipment) error {
	po, err := toShipmentModel(s)
	if err != nil {
		return err
	}
	return tx.guardedUpdate(&entity.Shipment{}, shipmentKey(s.ShipmentID), s.ShipmentID, map[string]interface{}{
		"current_owner":            po.CurrentOwner,
		"current_role":             po.CurrentRole,
		"status":                   po.Status,
		"device_id":                po.DeviceID,
		"temperature_excursion":    po.TemperatureExcursion,
		"humidity_range_violation": po.HumidityRangeViolation,
		"claim_id":                 po.ClaimID,
		"claim_status":             po.ClaimStatus,
		"claim_request_date":       po.ClaimRequestDate,
		"tracker_events":           po.TrackerEvents,
		"geo_location":             po.GeoLocation,
	})
}

func (tx *gormTx) InsertRetailShipment(rs *etretail.RetailShipment) (string, error) {
	rs.DocumentID = tx.ledger.ids.NextDocumentID()
	po, err := toRetailModel(rs)
	if err != nil {
		return "", err
	}
	po.Version = 1
	if err := tx.create(po); err != nil {
		return "", err
	}
	tx.versions[retailKey(po.ID)] = po.Version
	return rs.DocumentID, nil
}

func (tx *gormTx) UpdateRetailShipment(rs *etretail.RetailShipment) error {
	po, err := toRetailModel(rs)
	if err != nil {
		return err
	}
	return tx.guardedUpdate(&entity.RetailShipment{}, retailKey(rs.RetailShipmentID), rs.RetailShipmentID, map[string]interface{}{
		"device_id":                po.DeviceID,
		"temperature_excursion":    po.TemperatureExcursion,
		"humidity_range_violation": po.HumidityRangeViolation,
		"geo_location":             po.GeoLocation,
		"current_owner":            po.CurrentOwner,
		"current_role":             po.CurrentRole,
		"status":                   po.Status,
	})
}

func (tx *gormTx) InsertSensorData(sd *etsensor.SensorData) error {
	sd.DocumentID = tx.ledger.ids.NextDocumentID()
	sd.CommittedAt = tx.ledger.now()
	sd.Hash = sd.ContentHash()
	return tx.create(toSensorModel(sd))
}

func (tx *gormTx) InsertClaim(c *etclaim.Claim) error {
	c.DocumentID = tx.ledger.ids.NextDocumentID()
	po := toClaimModel(c)
	po.CreatedAt = tx.ledger.now()
	return tx.create(po)
}
