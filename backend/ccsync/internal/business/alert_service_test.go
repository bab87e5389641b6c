package business

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldchain/backend/common/model"
	"coldchain/backend/ccsync/pkg/errorutil"
	"coldchain/backend/ccsync/pkg/logger"
)

type fakeNotifier struct {
	channel  string
	payloads [][]byte
	err      error
}

func (f *fakeNotifier) Publish(_ context.Context, channel string, payload []byte) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.channel = channel
	f.payloads = append(f.payloads, payload)
	return 2, nil
}

func sampleNotification() model.AlertNotification {
	return model.AlertNotification{
		ShipmentID:  "SHP-1",
		Temperature: -4.5,
		Hash:        "DEV-12025-03-04T05:06:07.000Z-4.5",
		DeviceID:    "DEV-1",
		Kind:        "Master",
		EventDate:   "2025-03-04T05:06:07.000Z",
	}
}

func TestForwardPublishesNotification(t *testing.T) {
	n := &fakeNotifier{}
	svc := NewAlertService(n, "coldchain:alerts", logger.NewNop())

	receivers, err := svc.Forward(context.Background(), sampleNotification())
	require.NoError(t, err)
	assert.Equal(t, int64(2), receivers)
	assert.Equal(t, "coldchain:alerts", n.channel)

	require.Len(t, n.payloads, 1)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(n.payloads[0], &got))
	assert.Equal(t, "SHP-1", got["shipmentID"])
	assert.Equal(t, -4.5, got["temperature"])
	assert.Equal(t, "DEV-12025-03-04T05:06:07.000Z-4.5", got["hash"])
}

func TestForwardRejectsIncompleteAlert(t *testing.T) {
	svc := NewAlertService(&fakeNotifier{}, "coldchain:alerts", logger.NewNop())

	a := sampleNotification()
	a.ShipmentID = ""
	_, err := svc.Forward(context.Background(), a)
	require.Error(t, err)
	assert.False(t, errorutil.IsRetryable(err))
}

func TestForwardPublishFailureIsRetryable(t *testing.T) {
	svc := NewAlertService(&fakeNotifier{err: errors.New("connection refused")}, "coldchain:alerts", logger.NewNop())

	_, err := svc.Forward(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.True(t, errorutil.IsRetryable(err))
}
