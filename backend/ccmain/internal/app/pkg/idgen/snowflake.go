package idgen

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// SnowflakeIDGenerator 账本文档 ID 生成器
// ID格式: 毫秒时间戳偏移 * 10^5 + 机器ID(2位) * 10^3 + 序列号(3位)
// 对外以 36 进制字符串作为 documentId，大写后即为 batchId
type SnowflakeIDGenerator struct {
	mu        sync.Mutex
	epoch     int64 // 起始时间戳，毫秒 (2024-01-01 00:00:00 UTC)
	machineID int64 // 机器ID (0-99)
	sequence  int64 // 序列号 (0-999)
	lastTime  int64 // 上次生成ID的毫秒时间戳
	now       func() time.Time
}

const (
	maxMachineID = 99  // 最大机器ID
	maxSequence  = 999 // 最大序列号

	documentIDWidth = 12
)

// NewSnowflakeIDGenerator 创建ID生成器
// machineID: 机器ID，范围 0-99，越界按 0 处理
func NewSnowflakeIDGenerator(machineID int64) *SnowflakeIDGenerator {
	if machineID < 0 || machineID > maxMachineID {
		machineID = 0
	}

	return &SnowflakeIDGenerator{
		epoch:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		machineID: machineID,
		now:       time.Now,
	}
}

// NextID 生成下一个数值 ID
func (g *SnowflakeIDGenerator) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UnixMilli()
	if now < g.lastTime {
		// 时钟回拨时沿用上次时间戳，依靠序列号保证唯一
		now = g.lastTime
	}

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) % (maxSequence + 1)
		if g.sequence == 0 {
			// 序列号用尽，借用下一毫秒
			now = g.lastTime + 1
		}
	} else {
		g.sequence = 0
	}

	g.lastTime = now

	return (now-g.epoch)*100000 + g.machineID*1000 + g.sequence
}

// NextDocumentID 生成账本文档 ID（36 进制，定长左补零）
func (g *SnowflakeIDGenerator) NextDocumentID() string {
	id := strconv.FormatInt(g.NextID(), 36)
	if len(id) < documentIDWidth {
		id = strings.Repeat("0", documentIDWidth-len(id)) + id
	}
	return id
}
