package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// RecomputeDistrict rebuilds one district's aggregate row from the source
// tables in a single statement, so replayed events converge on the same
// values.
func (r *statsRepository) RecomputeDistrict(ctx context.Context, district string) error {
	query := `
		INSERT INTO district_stats (district, total_workers, total_records,
			government_visits, private_visits, updated_at)
		SELECT
			$1,
			COUNT(DISTINCT w.id),
			COUNT(mr.id),
			COUNT(mr.id) FILTER (WHERE LOWER(mr.doctor_type) = 'government'),
			COUNT(mr.id) FILTER (WHERE LOWER(mr.doctor_type) <> 'government' AND mr.id IS NOT NULL),
			NOW()
		FROM workers w
		LEFT JOIN medical_records mr ON mr.worker_id = w.id
		WHERE w.district = $1
		ON CONFLICT (district) DO UPDATE SET
			total_workers = EXCLUDED.total_workers,
			total_records = EXCLUDED.total_records,
			government_visits = EXCLUDED.government_visits,
			private_visits = EXCLUDED.private_visits,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, district); err != nil {
		return fmt.Errorf("failed to recompute district stats: %w", err)
	}
	return nil
}

func (r *statsRepository) ListDistricts(ctx context.Context) ([]*model.DistrictStats, error) {
	query := `SELECT * FROM district_stats ORDER BY district ASC`
	var stats []*model.DistrictStats
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to list district stats: %w", err)
	}
	return stats, nil
}
