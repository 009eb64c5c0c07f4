package sync

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/pkg/logger"
)

type fakeStatsRepo struct {
	recomputed []string
	districts  []*model.DistrictStats
}

func (r *fakeStatsRepo) RecomputeDistrict(_ context.Context, district string) error {
	r.recomputed = append(r.recomputed, district)
	return nil
}

func (r *fakeStatsRepo) ListDistricts(context.Context) ([]*model.DistrictStats, error) {
	return r.districts, nil
}

func TestHandleRecordCreated(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := NewService(repo, logger.NewLogger(nil))

	payload, err := json.Marshal(model.RecordCreatedEvent{
		RecordID: uuid.New(),
		WorkerID: uuid.New(),
		District: "Ernakulam",
	})
	require.NoError(t, err)

	require.NoError(t, svc.HandleRecordCreated(context.Background(), payload))
	assert.Equal(t, []string{"Ernakulam"}, repo.recomputed)
}

func TestHandleRecordCreatedSkipsEmptyDistrict(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := NewService(repo, logger.NewLogger(nil))

	payload, err := json.Marshal(model.RecordCreatedEvent{RecordID: uuid.New(), WorkerID: uuid.New()})
	require.NoError(t, err)

	require.NoError(t, svc.HandleRecordCreated(context.Background(), payload))
	assert.Empty(t, repo.recomputed)
}

func TestHandleRecordCreatedRedeliveryIsIdempotent(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := NewService(repo, logger.NewLogger(nil))

	payload, err := json.Marshal(model.RecordCreatedEvent{
		RecordID: uuid.New(),
		District: "Ernakulam",
	})
	require.NoError(t, err)

	// Redelivery just recomputes the same aggregate again.
	require.NoError(t, svc.HandleRecordCreated(context.Background(), payload))
	require.NoError(t, svc.HandleRecordCreated(context.Background(), payload))
	assert.Equal(t, []string{"Ernakulam", "Ernakulam"}, repo.recomputed)
}

func TestHandleRecordCreatedBadPayload(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := NewService(repo, logger.NewLogger(nil))

	err := svc.HandleRecordCreated(context.Background(), []byte("not json"))
	assert.Error(t, err)
	assert.Empty(t, repo.recomputed)
}

func TestHandleWorkerRegistered(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := NewService(repo, logger.NewLogger(nil))

	district := "Palakkad"
	payload, err := json.Marshal(&model.Worker{
		Base:     model.Base{ID: uuid.New()},
		HealthID: "RA9012",
		District: &district,
	})
	require.NoError(t, err)

	require.NoError(t, svc.HandleWorkerRegistered(context.Background(), payload))
	assert.Equal(t, []string{"Palakkad"}, repo.recomputed)
}

func TestHandleWorkerRegisteredWithoutDistrict(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := NewService(repo, logger.NewLogger(nil))

	payload, err := json.Marshal(&model.Worker{Base: model.Base{ID: uuid.New()}, HealthID: "RA9012"})
	require.NoError(t, err)

	require.NoError(t, svc.HandleWorkerRegistered(context.Background(), payload))
	assert.Empty(t, repo.recomputed)
}
