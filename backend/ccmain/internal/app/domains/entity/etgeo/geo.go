package etgeo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"coldchain/backend/ccmain/internal/app/pkg/errorx"
)

// Axis 坐标轴
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

func (a Axis) String() string {
	if a == Latitude {
		return "latitude"
	}
	return "longitude"
}

const degreeMarker = "°"

// Location 地理位置（值对象）：原始字符串 + 带符号坐标 + 地名
type Location struct {
	Latitude  string
	XAxis     float64
	Longitude string
	YAxis     float64
	Location  string
}

// Reading 传感器上报的位置，空字符串表示未上报
type Reading struct {
	Latitude  string
	Longitude string
	Location  string
}

// Default 新建运单时的默认位置
func Default(location string) Location {
	return Location{
		Latitude:  "12.9716° N",
		XAxis:     12.9716,
		Longitude: "77.5946° E",
		YAxis:     77.5946,
		Location:  location,
	}
}

// Normalize 解析新上报的坐标：纬度含 S 取负，经度含 W 取负，其余保留原符号
func Normalize(raw string, axis Axis) (float64, error) {
	v, err := parseMagnitude(raw, axis)
	if err != nil {
		return 0, err
	}
	if axis == Latitude && strings.Contains(raw, "S") {
		return -math.Abs(v), nil
	}
	if axis == Longitude && strings.Contains(raw, "W") {
		return -math.Abs(v), nil
	}
	return v, nil
}

// NormalizeLastKnown 解析回退到上次已知位置时的坐标
// 该分支纬度按 W 取负（与 Normalize 不一致），保留现有行为等待产品确认
func NormalizeLastKnown(raw string, axis Axis) (float64, error) {
	v, err := parseMagnitude(raw, axis)
	if err != nil {
		return 0, err
	}
	if strings.Contains(raw, "W") {
		return -math.Abs(v), nil
	}
	return v, nil
}

// Resolve 合并上报位置与上次已知位置，逐项回退
func Resolve(reading Reading, lastKnown Location) (Location, error) {
	var (
		out Location
		err error
	)

	if reading.Latitude != "" {
		out.Latitude = reading.Latitude
		out.XAxis, err = Normalize(reading.Latitude, Latitude)
	} else {
		out.Latitude = lastKnown.Latitude
		out.XAxis, err = NormalizeLastKnown(lastKnown.Latitude, Latitude)
	}
	if err != nil {
		return Location{}, err
	}

	if reading.Longitude != "" {
		out.Longitude = reading.Longitude
		out.YAxis, err = Normalize(reading.Longitude, Longitude)
	} else {
		out.Longitude = lastKnown.Longitude
		out.YAxis, err = NormalizeLastKnown(lastKnown.Longitude, Longitude)
	}
	if err != nil {
		return Location{}, err
	}

	out.Location = reading.Location
	if out.Location == "" {
		out.Location = lastKnown.Location
	}
	return out, nil
}

// parseMagnitude 取度数符号之前的数值部分（保留符号），没有度数符号时去掉尾部的半球字母
func parseMagnitude(raw string, axis Axis) (float64, error) {
	text := raw
	if idx := strings.Index(text, degreeMarker); idx >= 0 {
		text = text[:idx]
	} else {
		text = strings.TrimRight(strings.TrimSpace(text), "NSEWnsew ")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errorx.MalformedInput(fmt.Sprintf("%s %q has no magnitude", axis, raw))
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errorx.MalformedInput(fmt.Sprintf("%s %q is not a number", axis, raw))
	}
	return v, nil
}
