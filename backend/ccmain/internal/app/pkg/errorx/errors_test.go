package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *DomainError
		want int
	}{
		{DuplicateShipment("SHP1"), http.StatusBadRequest},
		{DuplicateRetailShipment("RS1"), http.StatusBadRequest},
		{ShipmentNotFound("SHP1"), http.StatusBadRequest},
		{MasterShipmentNotFound("SHP1"), http.StatusBadRequest},
		{ClaimSubjectNotFound("SHP1"), http.StatusBadRequest},
		{ClaimAlreadyExists("SHP1", "CLM-1"), http.StatusBadRequest},
		{ReportingNotFound("audit trail"), http.StatusBadRequest},
		{MalformedInput("bad latitude"), http.StatusBadRequest},
		{ConflictExhausted(4, nil), http.StatusInternalServerError},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.err.Kind), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.HTTPStatus())
		})
	}
}

func TestDuplicateShipmentMessage(t *testing.T) {
	err := DuplicateShipment("SHP100")
	assert.Equal(t, "ShipmentData Integrity Error", err.Title)
	assert.Equal(t, "ShipmentData record with ShipmentId SHP100 already exists. No new record created", err.Detail)
}

func TestIsMatchesByKind(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", ShipmentNotFound("SHP1"))

	assert.True(t, errors.Is(wrapped, ErrShipmentNotFound))
	assert.False(t, errors.Is(wrapped, ErrClaimSubjectNotFound))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil))

	de := MalformedInput("bad")
	assert.Same(t, de, Wrap(fmt.Errorf("ctx: %w", de)))

	got := Wrap(errors.New("connection reset"))
	require.NotNil(t, got)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "connection reset", got.Detail)
}

func TestConflictExhaustedIsRetryable(t *testing.T) {
	cause := errors.New("conflict")
	err := ConflictExhausted(3, cause)

	assert.True(t, err.Retryable)
	assert.ErrorIs(t, err, cause)
}
