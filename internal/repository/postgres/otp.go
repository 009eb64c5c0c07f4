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

type otpRepository struct {
	db *sqlx.DB
}

func NewOTPRepository(db *sqlx.DB) repository.OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, otp *model.WorkerOTP) error {
	query := `
		INSERT INTO worker_otps (id, mobile_number, code_hash, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	otp.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		otp.ID,
		otp.MobileNumber,
		otp.CodeHash,
		otp.ExpiresAt,
		otp.Used,
		otp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}
	return nil
}

func (r *otpRepository) DeleteForNumber(ctx context.Context, mobileNumber string) error {
	query := `DELETE FROM worker_otps WHERE mobile_number = $1`
	if _, err := r.db.ExecContext(ctx, query, mobileNumber); err != nil {
		return fmt.Errorf("failed to delete otps: %w", err)
	}
	return nil
}

func (r *otpRepository) GetActive(ctx context.Context, mobileNumber string) (*model.WorkerOTP, error) {
	query := `
		SELECT * FROM worker_otps
		WHERE mobile_number = $1 AND used = false AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	var otp model.WorkerOTP
	err := r.db.GetContext(ctx, &otp, query, mobileNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}
	return &otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE worker_otps SET used = true WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark otp used: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark otp used: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *otpRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM worker_otps WHERE used = true OR expires_at < $1`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale otps: %w", err)
	}
	return result.RowsAffected()
}
