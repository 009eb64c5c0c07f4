package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/pkg/logger"
)

// Service applies dashboard sync events. Every event triggers a full
// recomputation of the affected district's aggregate row, so redelivery is
// harmless and the pipeline only needs at-least-once semantics.
type Service struct {
	statsRepo repository.StatsRepository
	logger    *logger.Logger
}

func NewService(statsRepo repository.StatsRepository, log *logger.Logger) *Service {
	return &Service{statsRepo: statsRepo, logger: log}
}

// HandleRecordCreated consumes a record.created event.
func (s *Service) HandleRecordCreated(ctx context.Context, payload []byte) error {
	var evt model.RecordCreatedEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return fmt.Errorf("failed to decode record.created event: %w", err)
	}

	if evt.District == "" {
		// Workers without a district don't appear on the district dashboard.
		s.logger.Debug("record.created event without district, skipping",
			"record_id", evt.RecordID.String())
		return nil
	}

	if err := s.statsRepo.RecomputeDistrict(ctx, evt.District); err != nil {
		return fmt.Errorf("failed to sync district %s: %w", evt.District, err)
	}

	s.logger.Info("district stats synced", "district", evt.District)
	return nil
}

// HandleWorkerRegistered consumes a worker.registered event. The payload is
// the worker row; only the district matters here.
func (s *Service) HandleWorkerRegistered(ctx context.Context, payload []byte) error {
	var worker model.Worker
	if err := json.Unmarshal(payload, &worker); err != nil {
		return fmt.Errorf("failed to decode worker.registered event: %w", err)
	}

	if worker.District == nil || *worker.District == "" {
		return nil
	}

	if err := s.statsRepo.RecomputeDistrict(ctx, *worker.District); err != nil {
		return fmt.Errorf("failed to sync district %s: %w", *worker.District, err)
	}
	return nil
}
