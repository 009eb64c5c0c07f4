package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/pkg/logger"
	"github.com/swasthyaid/health-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "outbox")

type statusUpdate struct {
	id     uuid.UUID
	status model.OutboxStatus
	errMsg *string
}

type fakeOutboxRepo struct {
	pending []*model.OutboxEvent
	updates []statusUpdate
}

func (r *fakeOutboxRepo) Create(context.Context, *model.OutboxEvent) error { return nil }

func (r *fakeOutboxRepo) GetPendingEventsWithLock(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus,
	errorMessage *string, _ *time.Time) error {
	r.updates = append(r.updates, statusUpdate{id: id, status: status, errMsg: errorMessage})
	return nil
}

func (r *fakeOutboxRepo) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeBroker struct {
	published map[string][]interface{}
	failures  int
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{published: make(map[string][]interface{})}
}

func (b *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if b.failures > 0 {
		b.failures--
		return errors.New("broker unavailable")
	}
	b.published[channel] = append(b.published[channel], message)
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)
}

func pendingEvent() *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventRecordCreated,
		Payload:   []byte(`{"district":"Ernakulam"}`),
		Status:    string(model.OutboxStatusPending),
	}
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	event := pendingEvent()
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{event}}
	broker := newFakeBroker()

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Len(t, broker.published[model.EventRecordCreated], 1)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, event.ID, repo.updates[0].id)
	assert.Equal(t, model.OutboxStatusProcessed, repo.updates[0].status)
	assert.Nil(t, repo.updates[0].errMsg)
}

func TestProcessEventsRetriesTransientPublishFailure(t *testing.T) {
	event := pendingEvent()
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{event}}
	broker := newFakeBroker()
	broker.failures = 2 // fail twice, succeed on the third attempt

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Len(t, broker.published[model.EventRecordCreated], 1)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, model.OutboxStatusProcessed, repo.updates[0].status)
}

func TestProcessEventsMarksFailedAfterExhaustedRetries(t *testing.T) {
	event := pendingEvent()
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{event}}
	broker := newFakeBroker()
	broker.failures = 100

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Empty(t, broker.published)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, model.OutboxStatusFailed, repo.updates[0].status)
	require.NotNil(t, repo.updates[0].errMsg)
	assert.Contains(t, *repo.updates[0].errMsg, "broker unavailable")
}

func TestProcessEventsContinuesPastFailingEvent(t *testing.T) {
	bad := pendingEvent()
	good := pendingEvent()
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{bad, good}}
	broker := newFakeBroker()
	broker.failures = 3 // exactly the retry budget of the first event

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	// The first event exhausts its retries; the second still goes out.
	assert.Len(t, broker.published[model.EventRecordCreated], 1)
	require.Len(t, repo.updates, 2)
	assert.Equal(t, model.OutboxStatusFailed, repo.updates[0].status)
	assert.Equal(t, model.OutboxStatusProcessed, repo.updates[1].status)
}

func TestNewOutboxProcessorValidatesConfig(t *testing.T) {
	repo := &fakeOutboxRepo{}
	broker := newFakeBroker()

	assert.Panics(t, func() {
		NewOutboxProcessor(repo, broker, OutboxProcessorConfig{}, logger.NewLogger(nil), testMetrics)
	})
}
