package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/pkg/logger"
)

// defaultHealthTracking is returned when the AI upstream cannot produce a
// percentage.
const defaultHealthTracking = 95

const portalStatsCacheKey = "portal_stats"

// TextGenerator is the slice of the AI client the stats service needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type Service struct {
	workerRepo   repository.WorkerRepository
	recordRepo   repository.RecordRepository
	documentRepo repository.DocumentRepository
	statsRepo    repository.StatsRepository
	ai           TextGenerator
	cache        *gocache.Cache
	logger       *logger.Logger
}

func NewService(workerRepo repository.WorkerRepository, recordRepo repository.RecordRepository,
	documentRepo repository.DocumentRepository, statsRepo repository.StatsRepository,
	ai TextGenerator, log *logger.Logger) *Service {
	return &Service{
		workerRepo:   workerRepo,
		recordRepo:   recordRepo,
		documentRepo: documentRepo,
		statsRepo:    statsRepo,
		ai:           ai,
		cache:        gocache.New(time.Minute, 5*time.Minute),
		logger:       log,
	}
}

// PortalStats returns headline counts plus the AI-derived health tracking
// percentage. Cached for a minute; the AI call failing falls back to the
// fixed default rather than failing the endpoint.
func (s *Service) PortalStats(ctx context.Context) (*model.PortalStats, error) {
	if cached, ok := s.cache.Get(portalStatsCacheKey); ok {
		return cached.(*model.PortalStats), nil
	}

	workers, err := s.workerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count workers: %w", err)
	}
	records, err := s.recordRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	documents, err := s.documentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	stats := &model.PortalStats{
		TotalWorkers:   workers,
		TotalRecords:   records,
		TotalDocuments: documents,
		HealthTracking: s.healthTracking(ctx, workers, records, documents),
	}

	s.cache.Set(portalStatsCacheKey, stats, gocache.DefaultExpiration)
	return stats, nil
}

func (s *Service) healthTracking(ctx context.Context, workers, records, documents int64) int {
	prompt := fmt.Sprintf(`Based on the following health system statistics, calculate a realistic health tracking percentage:
- Total Registered Workers: %d
- Total Medical Records: %d
- Total Medical Documents: %d

Consider the record-to-worker ratio, document availability and overall system engagement.
Return only an integer between 80 and 99, nothing else.`, workers, records, documents)

	reply, err := s.ai.GenerateText(ctx, prompt, 10)
	if err != nil {
		s.logger.Warn("AI health tracking unavailable, using default", "error", err.Error())
		return defaultHealthTracking
	}

	pct, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil || pct < 80 || pct > 99 {
		return defaultHealthTracking
	}
	return pct
}

// Districts returns the derived per-district aggregates maintained by the
// sync worker.
func (s *Service) Districts(ctx context.Context) ([]*model.DistrictStats, error) {
	return s.statsRepo.ListDistricts(ctx)
}
