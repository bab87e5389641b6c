package etprimitive

import (
	"strings"
	"time"
)

// 基础类型和通用值对象

// RetailPrefix 零售子运单 ID 前缀
const RetailPrefix = "RS"

// ISOLayout 事件时间的 ISO-8601 UTC 毫秒格式
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Clock 可注入的时间源
type Clock func() time.Time

// NormalizeID 运单 ID 和参与方名称统一去空白并转大写
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// HasRetailPrefix 判断是否为零售子运单 ID（大小写不敏感）
func HasRetailPrefix(id string) bool {
	return strings.HasPrefix(NormalizeID(id), RetailPrefix)
}

// FormatISO 按 ISO-8601 UTC 毫秒格式输出
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
