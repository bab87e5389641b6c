package ginx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldchain/backend/ccmain/internal/app/pkg/errorx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := render(func(c *gin.Context) { Success(c, gin.H{"shipmentId": "SHP1"}) })

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 200, body.Meta.Code)
	assert.Nil(t, body.Error)
}

func TestDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{errorx.ShipmentNotFound("SHP1"), http.StatusBadRequest, "ShipmentNotFound"},
		{errorx.ClaimAlreadyExists("SHP1", "CLM-1"), http.StatusBadRequest, "ClaimAlreadyExists"},
		{errorx.ReportingNotFound("audit trail"), http.StatusBadRequest, "ReportingNotFound"},
		{errorx.ConflictExhausted(4, errors.New("conflict")), http.StatusInternalServerError, "ConflictExhausted"},
		{errors.New("db down"), http.StatusInternalServerError, "Internal"},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			w, body := render(func(c *gin.Context) { DomainError(c, tc.err) })

			assert.Equal(t, tc.status, w.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.kind, body.Error.Kind)
			assert.Equal(t, tc.status, body.Meta.Code)
		})
	}
}

func TestBadRequestWithValidation(t *testing.T) {
	type payload struct {
		ShipmentID string `validate:"required"`
		Quantity   int    `validate:"gte=0"`
	}
	err := validator.New().Struct(payload{Quantity: -1})
	require.Error(t, err)

	w, body := render(func(c *gin.Context) { BadRequestWithValidation(c, err) })

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "MalformedInput", body.Error.Kind)
	require.Len(t, body.Meta.Details, 2)
	assert.Equal(t, "ShipmentID", body.Meta.Details[0].Path)
	assert.Equal(t, "ShipmentID is required", body.Meta.Details[0].Info)
	assert.Equal(t, "Quantity must be greater than or equal to 0", body.Meta.Details[1].Info)
}

func TestBadRequestPlainError(t *testing.T) {
	w, body := render(func(c *gin.Context) { BadRequestWithValidation(c, errors.New("unexpected EOF")) })

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unexpected EOF", body.Error.Detail)
	assert.Empty(t, body.Meta.Details)
}
