package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 业务错误分类，决定对外的 HTTP 状态码
type Kind string

const (
	KindDuplicateShipment       Kind = "DuplicateShipment"
	KindDuplicateRetailShipment Kind = "DuplicateRetailShipment"
	KindShipmentNotFound        Kind = "ShipmentNotFound"
	KindMasterShipmentNotFound  Kind = "MasterShipmentNotFound"
	KindClaimSubjectNotFound    Kind = "ClaimSubjectNotFound"
	KindClaimAlreadyExists      Kind = "ClaimAlreadyExists"
	KindReportingNotFound       Kind = "ReportingNotFound"
	KindMalformedInput          Kind = "MalformedInput"
	KindConflictExhausted       Kind = "ConflictExhausted"
	KindInternal                Kind = "Internal"
)

// DomainError 业务错误结构
type DomainError struct {
	Kind      Kind
	Title     string
	Detail    string
	Retryable bool
	Details   []ErrorDetail
	Cause     error
}

// ErrorDetail 错误详情（字段级校验失败时使用）
type ErrorDetail struct {
	Path string
	Info string
}

// Error 实现 error 接口
func (e *DomainError) Error() string {
	if e.Detail == "" {
		return e.Title
	}
	return e.Title + ": " + e.Detail
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// HTTPStatus 业务类错误一律 400，冲突耗尽和内部错误 500
func (e *DomainError) HTTPStatus() int {
	switch e.Kind {
	case KindConflictExhausted, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Is 按 Kind 比较，便于 errors.Is(err, errorx.ErrShipmentNotFound) 判断
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// 哨兵错误，仅用于 errors.Is 比较
var (
	ErrDuplicateShipment       = &DomainError{Kind: KindDuplicateShipment}
	ErrDuplicateRetailShipment = &DomainError{Kind: KindDuplicateRetailShipment}
	ErrShipmentNotFound        = &DomainError{Kind: KindShipmentNotFound}
	ErrMasterShipmentNotFound  = &DomainError{Kind: KindMasterShipmentNotFound}
	ErrClaimSubjectNotFound    = &DomainError{Kind: KindClaimSubjectNotFound}
	ErrClaimAlreadyExists      = &DomainError{Kind: KindClaimAlreadyExists}
	ErrReportingNotFound       = &DomainError{Kind: KindReportingNotFound}
	ErrMalformedInput          = &DomainError{Kind: KindMalformedInput}
	ErrConflictExhausted       = &DomainError{Kind: KindConflictExhausted}
	ErrInternal                = &DomainError{Kind: KindInternal}
)

// DuplicateShipment 运单已存在
func DuplicateShipment(shipmentID string) *DomainError {
	return &DomainError{
		Kind:   KindDuplicateShipment,
		Title:  "ShipmentData Integrity Error",
		Detail: fmt.Sprintf("ShipmentData record with ShipmentId %s already exists. No new record created", shipmentID),
	}
}

// DuplicateRetailShipment 零售子运单已存在
func DuplicateRetailShipment(retailShipmentID string) *DomainError {
	return &DomainError{
		Kind:   KindDuplicateRetailShipment,
		Title:  "RetailShipment Integrity Error",
		Detail: fmt.Sprintf("RetailShipment record with RetailShipmentId %s already exists. No new record created", retailShipmentID),
	}
}

// ShipmentNotFound 运单不存在
func ShipmentNotFound(shipmentID string) *DomainError {
	return &DomainError{
		Kind:   KindShipmentNotFound,
		Title:  "ShipmentData Not Found Error",
		Detail: fmt.Sprintf("ShipmentData record with ShipmentId %s does not exist", shipmentID),
	}
}

// MasterShipmentNotFound 创建零售子运单时主运单不存在
func MasterShipmentNotFound(shipmentID string) *DomainError {
	return &DomainError{
		Kind:   KindMasterShipmentNotFound,
		Title:  "Origin ShipmentData Not Found Error",
		Detail: fmt.Sprintf("Origin ShipmentData record with ShipmentId %s does not exist", shipmentID),
	}
}

// ClaimSubjectNotFound 理赔对应的运单不存在
func ClaimSubjectNotFound(shipmentID string) *DomainError {
	return &DomainError{
		Kind:   KindClaimSubjectNotFound,
		Title:  "Shipment Not Found Error",
		Detail: fmt.Sprintf("Shipment record with ShipmentId %s does not exist. Claim not created", shipmentID),
	}
}

// ClaimAlreadyExists 运单已有处理中的理赔
func ClaimAlreadyExists(shipmentID, claimID string) *DomainError {
	return &DomainError{
		Kind:   KindClaimAlreadyExists,
		Title:  "Claim Integrity Error",
		Detail: fmt.Sprintf("Shipment %s already has pending claim %s", shipmentID, claimID),
	}
}

// ReportingNotFound 报表查询结果为空
func ReportingNotFound(report string) *DomainError {
	return &DomainError{
		Kind:   KindReportingNotFound,
		Title:  "Sensor data not found error",
		Detail: fmt.Sprintf("No records found for %s", report),
	}
}

// MalformedInput 输入格式错误
func MalformedInput(detail string) *DomainError {
	return &DomainError{
		Kind:   KindMalformedInput,
		Title:  "Malformed Input Error",
		Detail: detail,
	}
}

// MalformedInputWithDetails 带字段详情的输入错误
func MalformedInputWithDetails(detail string, details []ErrorDetail) *DomainError {
	e := MalformedInput(detail)
	e.Details = details
	return e
}

// ConflictExhausted OCC 重试次数耗尽
func ConflictExhausted(attempts int, cause error) *DomainError {
	return &DomainError{
		Kind:      KindConflictExhausted,
		Title:     "Ledger Conflict Error",
		Detail:    fmt.Sprintf("transaction aborted after %d conflicting attempts", attempts),
		Retryable: true,
		Cause:     cause,
	}
}

// Internal 未分类的内部错误
func Internal(cause error) *DomainError {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return &DomainError{
		Kind:   KindInternal,
		Title:  "Internal Error",
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap 保留已有的 DomainError，其余错误包装为 Internal
func Wrap(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return Internal(err)
}
