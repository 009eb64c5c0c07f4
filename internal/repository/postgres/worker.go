package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
)

type workerRepository struct {
	db *sqlx.DB
}

func NewWorkerRepository(db *sqlx.DB) repository.WorkerRepository {
	return &workerRepository{db: db}
}

func (r *workerRepository) Create(ctx context.Context, worker *model.Worker) error {
	query := `
		INSERT INTO workers (id, health_id, name, mobile_number, email, address,
			date_of_birth, aadhaar_number, district, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	worker.CreatedAt = time.Now()
	worker.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		worker.ID,
		worker.HealthID,
		worker.Name,
		worker.MobileNumber,
		worker.Email,
		worker.Address,
		worker.DateOfBirth,
		worker.AadhaarNumber,
		worker.District,
		worker.CreatedAt,
		worker.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
		}
		return fmt.Errorf("failed to create worker: %w", err)
	}
	return nil
}

func (r *workerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Worker, error) {
	query := `SELECT * FROM workers WHERE id = $1`
	var worker model.Worker
	err := r.db.GetContext(ctx, &worker, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return &worker, nil
}

func (r *workerRepository) GetByHealthID(ctx context.Context, healthID string) (*model.Worker, error) {
	query := `SELECT * FROM workers WHERE health_id = $1`
	var worker model.Worker
	err := r.db.GetContext(ctx, &worker, query, healthID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker by health id: %w", err)
	}
	return &worker, nil
}

func (r *workerRepository) GetByMobileNumber(ctx context.Context, mobileNumber string) (*model.Worker, error) {
	query := `SELECT * FROM workers WHERE mobile_number = $1`
	var worker model.Worker
	err := r.db.GetContext(ctx, &worker, query, mobileNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker by mobile number: %w", err)
	}
	return &worker, nil
}

func (r *workerRepository) ExistsByAadhaar(ctx context.Context, aadhaarNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM workers WHERE aadhaar_number = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, aadhaarNumber); err != nil {
		return false, fmt.Errorf("failed to check aadhaar: %w", err)
	}
	return exists, nil
}

func (r *workerRepository) ExistsByHealthID(ctx context.Context, healthID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM workers WHERE health_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, healthID); err != nil {
		return false, fmt.Errorf("failed to check health id: %w", err)
	}
	return exists, nil
}

func (r *workerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM workers`); err != nil {
		return 0, fmt.Errorf("failed to count workers: %w", err)
	}
	return count, nil
}
