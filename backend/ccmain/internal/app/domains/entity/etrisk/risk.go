package etrisk

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"coldchain/backend/ccmain/internal/app/domains/entity/etprimitive"
)

const (
	// ExcursionThreshold 温度达到或超过该值记一次温度偏离（含边界）
	ExcursionThreshold = -10.0
	// HumidityThreshold 湿度达到或超过该值记一次湿度违规（含边界）
	HumidityThreshold = 70.0
	// HighRiskExcursions 温度偏离次数达到该值即为高风险运单
	HighRiskExcursions = 3

	// SimulatedDeviceID 未上报设备号时使用的占位设备
	SimulatedDeviceID = "SIM-99999"

	ConditionNormal   = "Normal sensor data"
	ConditionAbnormal = "Abnormal sensor data"
)

// Counters 风险计数器，只增不减
type Counters struct {
	TemperatureExcursion   int
	HumidityRangeViolation int
}

// Reading 单次传感器读数
type Reading struct {
	Temperature float64
	Humidity    float64
}

// Assessment 风险评估结果
type Assessment struct {
	Counters  Counters
	Alert     bool
	Condition string
}

// Assess 根据读数更新计数器并判断是否需要告警
func Assess(current Counters, r Reading) Assessment {
	out := Assessment{Counters: current, Condition: ConditionNormal}

	if r.Temperature >= ExcursionThreshold {
		out.Counters.TemperatureExcursion++
		out.Alert = true
		out.Condition = ConditionAbnormal
	}
	if r.Humidity >= HumidityThreshold {
		out.Counters.HumidityRangeViolation++
	}
	return out
}

// IsHighRisk 是否高风险
func IsHighRisk(temperatureExcursion int) bool {
	return temperatureExcursion >= HighRiskExcursions
}

// ResolveDeviceID 空设备号或字面量 "undefined" 替换为模拟设备
func ResolveDeviceID(deviceID string) string {
	if deviceID == "" || deviceID == "undefined" {
		return SimulatedDeviceID
	}
	return deviceID
}

// Fingerprint 可读的读数指纹：设备号 + UTC 时间 + 温度
func Fingerprint(deviceID string, at time.Time, temperature float64) string {
	return deviceID + etprimitive.FormatISO(at) + strconv.FormatFloat(temperature, 'f', -1, 64)
}

// HumidityRange 合成湿度的取值区间（闭区间）
type HumidityRange struct {
	Min int
	Max int
}

var (
	// SimulatedHumidity 模拟上报路径的合成湿度区间
	SimulatedHumidity = HumidityRange{Min: 30, Max: 70}
	// PlainHumidity 普通上报路径的合成湿度区间
	PlainHumidity = HumidityRange{Min: 40, Max: 80}
)

// HumiditySource 读数未携带湿度时的湿度来源
type HumiditySource interface {
	Sample(r HumidityRange) float64
}

// RandomHumidity 区间内均匀分布的整数湿度
type RandomHumidity struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomHumidity 创建随机湿度源
func NewRandomHumidity(seed int64) *RandomHumidity {
	return &RandomHumidity{rnd: rand.New(rand.NewSource(seed))}
}

func (h *RandomHumidity) Sample(r HumidityRange) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return float64(r.Min + h.rnd.Intn(r.Max-r.Min+1))
}

// FixedHumidity 固定湿度（测试用）
type FixedHumidity float64

func (f FixedHumidity) Sample(HumidityRange) float64 {
	return float64(f)
}
