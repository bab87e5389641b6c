package rpledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coldchain/backend/ccmain/internal/app/domains/entity/etclaim"
	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
	"coldchain/backend/ccmain/internal/app/domains/entity/etretail"
	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/pkg/idgen"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
	"coldchain/backend/ccmain/internal/app/pkg/metrics"
)

// doc 带版本号的文档
type doc[T any] struct {
	Version int64
	Data    T
}

type memoryState struct {
	shipments map[string]doc[etshipment.Shipment]
	retail    map[string]doc[etretail.RetailShipment]
	sensor    []etsensor.SensorData
	claims    []etclaim.Claim
}

func newMemoryState() memoryState {
	return memoryState{
		shipments: map[string]doc[etshipment.Shipment]{},
		retail:    map[string]doc[etretail.RetailShipment]{},
	}
}

func cloneShipment(s etshipment.Shipment) etshipment.Shipment {
	s.Events = append([]etshipment.Event(nil), s.Events...)
	return s
}

func cloneRetail(rs etretail.RetailShipment) etretail.RetailShipment {
	if rs.DeliveryDate != nil {
		d := *rs.DeliveryDate
		rs.DeliveryDate = &d
	}
	return rs
}

// MemoryLedger 内存账本：快照事务 + 提交时校验读集合版本
type MemoryLedger struct {
	mu      sync.RWMutex
	state   memoryState
	ids     *idgen.SnowflakeIDGenerator
	retrier *retrier
	now     etprimitive.Clock

	// beforeCommit 测试钩子，在校验读集合前调用
	beforeCommit func()
}

// NewMemoryLedger 创建内存账本实例
func NewMemoryLedger(ids *idgen.SnowflakeIDGenerator, policy RetryPolicy, log logger.Logger, m *metrics.Metrics) *MemoryLedger {
	return &MemoryLedger{
		state:   newMemoryState(),
		ids:     ids,
		retrier: newRetrier(policy, "memory", log, m),
		now:     time.Now,
	}
}

// WithClock 替换时间源（测试用）
func (l *MemoryLedger) WithClock(now etprimitive.Clock) *MemoryLedger {
	l.now = now
	return l
}

// ExecuteInTransaction 在快照上执行 fn，提交时发现读过的文档已被修改则重试
func (l *MemoryLedger) ExecuteInTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return l.retrier.run(ctx, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		tx := l.begin()
		if err := fn(tx); err != nil {
			return err
		}
		return l.commit(tx)
	})
}

// View 在只读快照上执行 fn
func (l *MemoryLedger) View(ctx context.Context, fn func(tx View) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(l.begin())
}

func (l *MemoryLedger) begin() *memoryTx {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tx := &memoryTx{
		ledger:    l,
		shipments: make(map[string]doc[etshipment.Shipment], len(l.state.shipments)),
		retail:    make(map[string]doc[etretail.RetailShipment], len(l.state.retail)),
		sensor:    append([]etsensor.SensorData(nil), l.state.sensor...),
		reads:     map[string]int64{},
		writes:    map[string]struct{}{},
	}
	for k, v := range l.state.shipments {
		tx.shipments[k] = v
	}
	for k, v := range l.state.retail {
		tx.retail[k] = v
	}
	return tx
}

func (l *MemoryLedger) currentVersion(key string) int64 {
	if d, ok := l.state.shipments[key]; ok {
		return d.Version
	}
	if d, ok := l.state.retail[key]; ok {
		return d.Version
	}
	return 0
}

func (l *MemoryLedger) commit(tx *memoryTx) error {
	if l.beforeCommit != nil {
		l.beforeCommit()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, version := range tx.reads {
		if l.currentVersion(key) != version {
			return ErrConflict
		}
	}

	committedAt := l.now()
	for key := range tx.writes {
		if d, ok := tx.shipments[key]; ok {
			l.state.shipments[key] = d
			continue
		}
		if d, ok := tx.retail[key]; ok {
			l.state.retail[key] = d
		}
	}
	for i := range tx.newSensor {
		sd := tx.newSensor[i]
		sd.CommittedAt = committedAt
		sd.Hash = sd.ContentHash()
		l.state.sensor = append(l.state.sensor, sd)
	}
	l.state.claims = append(l.state.claims, tx.newClaims...)
	return nil
}

// memoryTx 单次快照事务
type memoryTx struct {
	ledger    *MemoryLedger
	shipments map[string]doc[etshipment.Shipment]
	retail    map[string]doc[etretail.RetailShipment]
	sensor    []etsensor.SensorData
	newSensor []etsensor.SensorData
	newClaims []etclaim.Claim

	reads  map[string]int64
	writes map[string]struct{}
}

// observe 记录读到的版本号，首次读取为准
func (tx *memoryTx) observe(key string, version int64) {
	if _, ok := tx.reads[key]; !ok {
		tx.reads[key] = version
	}
}

func (tx *memoryTx) FindShipment(shipmentID string) (*etshipment.Shipment, error) {
	key := shipmentKey(shipmentID)
	d, ok := tx.shipments[key]
	tx.observe(key, d.Version)
	if !ok {
		return nil, nil
	}
	s := cloneShipment(d.Data)
	return &s, nil
}

func (tx *memoryTx) FindRetailShipment(retailShipmentID string) (*etretail.RetailShipment, error) {
	key := retailKey(retailShipmentID)
	d, ok := tx.retail[key]
	tx.observe(key, d.Version)
	if !ok {
		return nil, nil
	}
	rs := cloneRetail(d.Data)
	return &rs, nil
}

func matchShipment(s *etshipment.Shipment, q ShipmentQuery) bool {
	if q.Manufacturer != "" && etprimitive.NormalizeID(s.Manufacturer) != etprimitive.NormalizeID(q.Manufacturer) {
		return false
	}
	if q.MinExcursions > 0 && s.Counters.TemperatureExcursion < q.MinExcursions {
		return false
	}
	if q.ClaimedOnly && !s.Claim.Active() {
		return false
	}
	return true
}

func (tx *memoryTx) ListShipments(q ShipmentQuery) ([]*etshipment.Shipment, error) {
	out := make([]*etshipment.Shipment, 0)
	for _, d := range tx.shipments {
		s := cloneShipment(d.Data)
		if matchShipment(&s, q) {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (tx *memoryTx) CountShipments(q ShipmentQuery) (int64, error) {
	var n int64
	for _, d := range tx.shipments {
		if matchShipment(&d.Data, q) {
			n++
		}
	}
	return n, nil
}

func (tx *memoryTx) ListRetailShipments(masterID string) ([]*etretail.RetailShipment, error) {
	out := make([]*etretail.RetailShipment, 0)
	for _, d := range tx.retail {
		if masterID != "" && d.Data.MasterShipmentID != masterID {
			continue
		}
		rs := cloneRetail(d.Data)
		out = append(out, &rs)
	}
	return out, nil
}

func (tx *memoryTx) ListSensorData(shipmentID string) ([]*etsensor.SensorData, error) {
	out := make([]*etsensor.SensorData, 0)
	for i := range tx.sensor {
		if tx.sensor[i].ShipmentID == shipmentID {
			sd := tx.sensor[i]
			out = append(out, &sd)
		}
	}
	return out, nil
}

func (tx *memoryTx) InsertShipment(s *etshipment.Shipment) (string, error) {
	key := shipmentKey(s.ShipmentID)
	if _, ok := tx.shipments[key]; ok {
		return "", fmt.Errorf("%w: shipment %s already exists", ErrConflict, s.ShipmentID)
	}
	tx.observe(key, 0)

	s.DocumentID = tx.ledger.ids.NextDocumentID()
	tx.shipments[key] = doc[etshipment.Shipment]{Version: 1, Data: cloneShipment(*s)}
	tx.writes[key] = struct{}{}
	return s.DocumentID, nil
}

func (tx *memoryTx) StampBatchID(shipmentID, batchID string) error {
	key := shipmentKey(shipmentID)
	d, ok := tx.shipments[key]
	if !ok {
		return fmt.Errorf("ledger: shipment %s not found", shipmentID)
	}
	d.Data.BatchID = batchID
	d.Version++
	tx.shipments[key] = d
	tx.writes[key] = struct{}{}
	return nil
}

func (tx *memoryTx) UpdateShipment(s *etshipment.Shipment) error {
	key := shipmentKey(s.ShipmentID)
	if _, read := tx.reads[key]; !read {
		return fmt.Errorf("ledger: %s updated without being read in this transaction", key)
	}
	d, ok := tx.shipments[key]
	if !ok {
		return fmt.Errorf("ledger: shipment %s not found", s.ShipmentID)
	}
	d.Data.CurrentOwner = s.CurrentOwner
	d.Data.CurrentRole = s.CurrentRole
	d.Data.Status = s.Status
	d.Data.DeviceID = s.DeviceID
	d.Data.Counters = s.Counters
	d.Data.Claim = s.Claim
	d.Data.Events = append([]etshipment.Event(nil), s.Events...)
	d.Data.Geo = s.Geo
	d.Version++
	tx.shipments[key] = d
	tx.writes[key] = struct{}{}
	return nil
}

func (tx *memoryTx) InsertRetailShipment(rs *etretail.RetailShipment) (string, error) {
	key := retailKey(rs.RetailShipmentID)
	if _, ok := tx.retail[key]; ok {
		return "", fmt.Errorf("%w: retail shipment %s already exists", ErrConflict, rs.RetailShipmentID)
	}
	tx.observe(key, 0)

	rs.DocumentID = tx.ledger.ids.NextDocumentID()
	tx.retail[key] = doc[etretail.RetailShipment]{Version: 1, Data: cloneRetail(*rs)}
	tx.writes[key] = struct{}{}
	return rs.DocumentID, nil
}

func (tx *memoryTx) UpdateRetailShipment(rs *etretail.RetailShipment) error {
	key := retailKey(rs.RetailShipmentID)
	if _, read := tx.reads[key]; !read {
		return fmt.Errorf("ledger: %s updated without being read in this transaction", key)
	}
	d, ok := tx.retail[key]
	if !ok {
		return fmt.Errorf("ledger: retail shipment %s not found", rs.RetailShipmentID)
	}
	d.Data.DeviceID = rs.DeviceID
	d.Data.Counters = rs.Counters
	d.Data.Geo = rs.Geo
	d.Data.CurrentOwner = rs.CurrentOwner
	d.Data.CurrentRole = rs.CurrentRole
	d.Data.Status = rs.Status
	d.Version++
	tx.retail[key] = d
	tx.writes[key] = struct{}{}
	return nil
}

func (tx *memoryTx) InsertSensorData(sd *etsensor.SensorData) error {
	sd.DocumentID = tx.ledger.ids.NextDocumentID()
	tx.newSensor = append(tx.newSensor, *sd)
	return nil
}

func (tx *memoryTx) InsertClaim(c *etclaim.Claim) error {
	c.DocumentID = tx.ledger.ids.NextDocumentID()
	tx.newClaims = append(tx.newClaims, *c)
	return nil
}
