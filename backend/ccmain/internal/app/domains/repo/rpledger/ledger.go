package rpledger

import (
	"context"
	"errors"

	"coldchain/backend/ccmain/internal/app/domains/entity/etclaim"
	"coldchain/backend/ccmain/internal/app/domains/entity/etretail"
	"coldchain/backend/ccmain/internal/app/domains/entity/etsensor"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
)

// ErrConflict 乐观并发冲突，事务体会被整体重新执行
var ErrConflict = errors.New("ledger: optimistic concurrency conflict")

// Ledger 账本仓储接口（只定义，不实现）
// 所有写操作都在 ExecuteInTransaction 中完成，冲突时自动重试
type Ledger interface {
	// ExecuteInTransaction 在读写事务中执行 fn，遇到 ErrConflict 整体重试
	ExecuteInTransaction(ctx context.Context, fn func(tx Tx) error) error

	// View 在只读快照中执行 fn
	View(ctx context.Context, fn func(tx View) error) error
}

// View 只读事务视图
type View interface {
	// FindShipment 查询主运单，不存在时返回 nil, nil
	FindShipment(shipmentID string) (*etshipment.Shipment, error)

	// FindRetailShipment 查询零售子运单，不存在时返回 nil, nil
	FindRetailShipment(retailShipmentID string) (*etretail.RetailShipment, error)

	// ListShipments 按条件列出主运单（不保证顺序）
	ListShipments(q ShipmentQuery) ([]*etshipment.Shipment, error)

	// CountShipments 按条件计数
	CountShipments(q ShipmentQuery) (int64, error)

	// ListRetailShipments 列出主运单下的零售子运单，masterID 为空时列出全部
	ListRetailShipments(masterID string) ([]*etretail.RetailShipment, error)

	// ListSensorData 列出运单的全部读数事实（不保证顺序）
	ListSensorData(shipmentID string) ([]*etsensor.SensorData, error)
}

// Tx 读写事务
type Tx interface {
	View

	// InsertShipment 新增主运单，返回账本分配的文档ID
	InsertShipment(s *etshipment.Shipment) (string, error)

	// StampBatchID 写入批次号
	StampBatchID(shipmentID, batchID string) error

	// UpdateShipment 整体更新主运单可变字段（必须先在同一事务中读取）
	UpdateShipment(s *etshipment.Shipment) error

	// InsertRetailShipment 新增零售子运单，返回账本分配的文档ID
	InsertRetailShipment(rs *etretail.RetailShipment) (string, error)

	// UpdateRetailShipment 更新零售子运单可变字段（必须先在同一事务中读取）
	UpdateRetailShipment(rs *etretail.RetailShipment) error

	// InsertSensorData 追加读数事实，账本填充 DocumentID / CommittedAt / Hash
	InsertSensorData(sd *etsensor.SensorData) error

	// InsertClaim 追加理赔事实
	InsertClaim(c *etclaim.Claim) error
}

// ShipmentQuery 主运单查询条件，零值表示不过滤
type ShipmentQuery struct {
	Manufacturer  string // 大写后比较
	MinExcursions int    // temperatureExcursion >= MinExcursions
	ClaimedOnly   bool   // 仅有理赔的运单
}

func shipmentKey(id string) string { return "shipment:" + id }
func retailKey(id string) string   { return "retail:" + id }
