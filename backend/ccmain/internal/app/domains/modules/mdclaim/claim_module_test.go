package mdclaim

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/domains/repo/rpledger"
	"coldchain/backend/ccmain/internal/app/pkg/errorx"
	"coldchain/backend/ccmain/internal/app/pkg/idgen"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
	"coldchain/backend/ccmain/internal/app/pkg/metrics"
)

var filedAt = time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)

func setup(t *testing.T) (*ClaimModule, *rpledger.MemoryLedger) {
	t.Helper()
	ledger := rpledger.NewMemoryLedger(idgen.NewSnowflakeIDGenerator(3),
		rpledger.RetryPolicy{MaxAttempts: 100, Backoff: 100 * time.Microsecond},
		logger.NewNop(), metrics.NewNop())
	require.NoError(t, ledger.ExecuteInTransaction(context.Background(), func(tx rpledger.Tx) error {
		s, err := etshipment.NewShipment(etshipment.NewShipmentParams{
			ShipmentID:   "SHP1",
			PolicyID:     "POL-9",
			InsuredValue: decimal.RequireFromString("1200.50"),
		}, filedAt.Add(-time.Hour))
		if err != nil {
			return err
		}
		_, err = tx.InsertShipment(s)
		return err
	}))
	return NewClaimModule(ledger, func() time.Time { return filedAt }), ledger
}

func TestFileClaim(t *testing.T) {
	m, ledger := setup(t)

	c, err := m.FileClaim(context.Background(), ClaimRequest{ShipmentID: "shp1"})
	require.NoError(t, err)
	assert.Equal(t, "CLM-POL-9", c.ClaimID)
	assert.Equal(t, etshipment.ClaimPending, c.Status)
	assert.True(t, decimal.RequireFromString("1200.5").Equal(c.InsuredValue))
	assert.NotEmpty(t, c.DocumentID)

	require.NoError(t, ledger.View(context.Background(), func(tx rpledger.View) error {
		s, err := tx.FindShipment("SHP1")
		require.NoError(t, err)
		assert.Equal(t, etshipment.PendingClaim("POL-9", filedAt), s.Claim)

		n, err := tx.CountShipments(rpledger.ShipmentQuery{ClaimedOnly: true})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		return nil
	}))
}

func TestFileClaimWithExplicitPolicy(t *testing.T) {
	m, _ := setup(t)

	c, err := m.FileClaim(context.Background(), ClaimRequest{
		ShipmentID:   "SHP1",
		PolicyID:     "POL-X",
		InsuredValue: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "CLM-POL-X", c.ClaimID)
	assert.Equal(t, "POL-X", c.PolicyID)
	assert.True(t, decimal.NewFromInt(10).Equal(c.InsuredValue))
	assert.Equal(t, filedAt, c.RequestDate)
}

func TestFileClaimTwice(t *testing.T) {
	m, _ := setup(t)
	_, err := m.FileClaim(context.Background(), ClaimRequest{ShipmentID: "SHP1"})
	require.NoError(t, err)

	_, err = m.FileClaim(context.Background(), ClaimRequest{ShipmentID: "SHP1"})
	assert.ErrorIs(t, err, errorx.ErrClaimAlreadyExists)
}

func TestFileClaimUnknownShipment(t *testing.T) {
	m, _ := setup(t)

	_, err := m.FileClaim(context.Background(), ClaimRequest{ShipmentID: "SHP404"})
	assert.ErrorIs(t, err, errorx.ErrClaimSubjectNotFound)
}

func TestConcurrentClaimsFileOnce(t *testing.T) {
	m, _ := setup(t)

	const callers = 8
	errs := make([]error, callers)
	g := new(errgroup.Group)
	for i := 0; i < callers; i++ {
		i := i
		g.Go(func() error {
			_, errs[i] = m.FileClaim(context.Background(), ClaimRequest{ShipmentID: "SHP1"})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	filed := 0
	for _, err := range errs {
		if err == nil {
			filed++
			continue
		}
		assert.ErrorIs(t, err, errorx.ErrClaimAlreadyExists)
	}
	assert.Equal(t, 1, filed)
}
