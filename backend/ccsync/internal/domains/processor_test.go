package domains

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"coldchain/backend/common/model"
	"coldchain/backend/ccsync/internal/business"
	"coldchain/backend/ccsync/internal/domains/common"
	"coldchain/backend/ccsync/pkg/lmstfyx"
	"coldchain/backend/ccsync/pkg/logger"
)

type fakeNotifier struct {
	published [][]byte
	err       error
}

func (f *fakeNotifier) Publish(_ context.Context, _ string, payload []byte) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.published = append(f.published, payload)
	return 1, nil
}

func alertJob(t *testing.T, shipmentID string) *client.Job {
	t.Helper()
	j := model.ShipmentAlertJob{
		Payload: model.ShipmentAlertPayload{
			Data: model.ShipmentAlertData{
				RequestID:  "req-1",
				OrgID:      "0",
				ActionType: model.ActionTypeShipmentAlert,
				ID:         shipmentID,
				Data: model.AlertNotification{
					ShipmentID:  shipmentID,
					Temperature: -3,
					Hash:        "DEV-12025-01-01T00:00:00.000Z-3",
					DeviceID:    "DEV-1",
					Kind:        "Master",
					EventDate:   "2025-01-01T00:00:00.000Z",
				},
			},
		},
	}
	data, err := json.Marshal(j)
	require.NoError(t, err)
	return &client.Job{ID: "job-1", Queue: "shipment_alert", Data: data}
}

func newProc(n *fakeNotifier, log logger.Logger) lmstfyx.Proc {
	return GetProcess(log, &common.Deps{
		AlertService: business.NewAlertService(n, "coldchain:alerts", log),
	})
}

func TestAlertJobForwarded(t *testing.T) {
	n := &fakeNotifier{}
	resp := newProc(n, logger.NewNop())(context.Background(), alertJob(t, "SHP-1"))

	assert.Equal(t, lmstfyx.JobRespStatusSuccess, resp.Action)
	require.Len(t, n.published, 1)
	assert.Contains(t, string(n.published[0]), `"shipmentID":"SHP-1"`)
	assert.Contains(t, string(resp.Data), `"status":"FORWARDED"`)
}

func TestPublishFailureReleasesJob(t *testing.T) {
	n := &fakeNotifier{err: errors.New("redis unavailable")}
	resp := newProc(n, logger.NewNop())(context.Background(), alertJob(t, "SHP-1"))

	assert.Equal(t, lmstfyx.JobRespStatusRelease, resp.Action)
}

func TestMalformedJobIsBuried(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := &fakeNotifier{}
	proc := newProc(n, logger.NewFromZap(zap.New(core)))

	resp := proc(context.Background(), &client.Job{ID: "job-2", Data: []byte("{not json")})
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
	assert.Empty(t, n.published)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestMissingPayloadIsBuried(t *testing.T) {
	resp := newProc(&fakeNotifier{}, logger.NewNop())(context.Background(), &client.Job{ID: "job-3", Data: []byte(`{"payload":{}}`)})
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}

func TestUnknownActionIsBuried(t *testing.T) {
	data := []byte(`{"payload":{"data":{"request_id":"r","action_type":"order_diagnose","id":"X","data":{}}}}`)
	resp := newProc(&fakeNotifier{}, logger.NewNop())(context.Background(), &client.Job{ID: "job-4", Data: data})
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}

func TestIncompleteAlertIsBuried(t *testing.T) {
	data := []byte(`{"payload":{"data":{"request_id":"r","action_type":"shipment_alert","id":"SHP-9","data":{"temperature":1}}}}`)
	n := &fakeNotifier{}
	resp := newProc(n, logger.NewNop())(context.Background(), &client.Job{ID: "job-5", Data: data})

	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
	assert.Empty(t, n.published)
}
