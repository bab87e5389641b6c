package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"coldchain/backend/ccmain/internal/app/pkg/errorx"
)

// Response 统一响应结构
type Response struct {
	Meta  Meta        `json:"meta"`
	Data  interface{} `json:"data,omitempty"`
	Error *ErrorBody  `json:"error,omitempty"`
}

// Meta 元数据
type Meta struct {
	Code    int           `json:"code" example:"200"`
	Message string        `json:"message" example:"OK"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorBody 领域错误
type ErrorBody struct {
	Kind      string `json:"kind" example:"ShipmentNotFound"`
	Title     string `json:"title" example:"Shipment not found"`
	Detail    string `json:"detail" example:"shipment SHP-1 does not exist"`
	Retryable bool   `json:"retryable,omitempty"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Path string `json:"path" example:"shipmentId"`
	Info string `json:"info" example:"shipmentId is required"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Meta: Meta{
			Code:    200,
			Message: "OK",
		},
		Data: data,
	})
}

// Error 错误响应（400/500）
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Meta: Meta{
			Code:    httpCode,
			Message: message,
		},
	})
}

// DomainError 按错误类别映射状态码并输出错误体
func DomainError(c *gin.Context, err error) {
	de := errorx.Wrap(err)
	status := de.HTTPStatus()

	details := make([]ErrorDetail, 0, len(de.Details))
	for _, d := range de.Details {
		details = append(details, ErrorDetail{Path: d.Path, Info: d.Info})
	}
	if len(details) == 0 {
		details = nil
	}

	c.JSON(status, Response{
		Meta: Meta{
			Code:    status,
			Message: de.Title,
			Details: details,
		},
		Error: &ErrorBody{
			Kind:      string(de.Kind),
			Title:     de.Title,
			Detail:    de.Detail,
			Retryable: de.Retryable,
		},
	})
}

// BadRequest 400 错误
func BadRequest(c *gin.Context, message string) {
	DomainError(c, errorx.MalformedInput(message))
}

// BadRequestWithValidation 400 错误（带验证详情）
func BadRequestWithValidation(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]errorx.ErrorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, errorx.ErrorDetail{
				Path: fieldErr.Field(),
				Info: getValidationErrorMessage(fieldErr),
			})
		}
		DomainError(c, errorx.MalformedInputWithDetails("Validation failed", details))
		return
	}

	BadRequest(c, err.Error())
}

// InternalError 500 错误
func InternalError(c *gin.Context, message string) {
	DomainError(c, errorx.Internal(errors.New(message)))
}

// getValidationErrorMessage 根据验证错误类型返回友好的错误消息
func getValidationErrorMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "gte":
		return fieldErr.Field() + " must be greater than or equal to " + fieldErr.Param()
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	default:
		return fieldErr.Field() + " is invalid"
	}
}
