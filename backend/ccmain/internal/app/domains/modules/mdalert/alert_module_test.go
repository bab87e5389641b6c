package mdalert

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"coldchain/backend/common/model"
	"coldchain/backend/ccmain/internal/app/domains/entity/etshipment"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
)

type fakeQueue struct {
	queue string
	data  interface{}
	ttl   time.Duration
	err   error
}

func (f *fakeQueue) Publish(queue string, data interface{}, ttl time.Duration) (string, error) {
	f.queue, f.data, f.ttl = queue, data, ttl
	return "job-1", f.err
}

type fakeTopic struct {
	channel string
	payload []byte
	err     error
}

func (f *fakeTopic) Publish(_ context.Context, channel string, payload []byte) (int64, error) {
	f.channel, f.payload = channel, payload
	return 1, f.err
}

var testAlert = Alert{
	ShipmentID:  "SHP1",
	Kind:        etshipment.KindMaster,
	DeviceID:    "DEV-1",
	Temperature: -4.5,
	TempHash:    "DEV-12025-01-01T00:00:00.000Z-4.5",
	EventDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestOutboxPublisherBuildsStandardJob(t *testing.T) {
	q := &fakeQueue{}
	p := NewOutboxPublisher(q, "shipment_alert", time.Hour)

	ctx := logger.WithTraceID(context.Background(), "trace-1")
	require.NoError(t, p.Publish(ctx, testAlert))

	assert.Equal(t, "shipment_alert", q.queue)
	assert.Equal(t, time.Hour, q.ttl)
	job, ok := q.data.(model.ShipmentAlertJob)
	require.True(t, ok)
	assert.Equal(t, "trace-1", job.Payload.Data.RequestID)
	assert.Equal(t, model.ActionTypeShipmentAlert, job.Payload.Data.ActionType)
	assert.Equal(t, "SHP1", job.Payload.Data.ID)
	assert.Equal(t, "2025-01-01T00:00:00.000Z", job.Payload.Data.Data.EventDate)
	assert.Equal(t, "Master", job.Payload.Data.Data.Kind)
}

func TestOutboxPublisherGeneratesRequestID(t *testing.T) {
	q := &fakeQueue{}
	require.NoError(t, NewOutboxPublisher(q, "q", time.Minute).Publish(context.Background(), testAlert))
	assert.NotEmpty(t, q.data.(model.ShipmentAlertJob).Payload.Data.RequestID)
}

func TestOutboxPublisherWrapsError(t *testing.T) {
	boom := errors.New("connection refused")
	err := NewOutboxPublisher(&fakeQueue{err: boom}, "q", time.Minute).Publish(context.Background(), testAlert)
	assert.ErrorIs(t, err, boom)
}

func TestDirectPublisherPayload(t *testing.T) {
	topic := &fakeTopic{}
	require.NoError(t, NewDirectPublisher(topic, "coldchain:alerts").Publish(context.Background(), testAlert))

	assert.Equal(t, "coldchain:alerts", topic.channel)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(topic.payload, &got))
	assert.Equal(t, "SHP1", got["shipmentID"])
	assert.Equal(t, -4.5, got["temperature"])
	assert.Equal(t, testAlert.TempHash, got["hash"])
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewLogPublisher(logger.NewFromZap(zap.New(core)))

	require.NoError(t, p.Publish(context.Background(), testAlert))
	assert.Equal(t, 1, logs.FilterMessage("temperature alert").Len())
}
