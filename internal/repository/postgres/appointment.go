package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE worker_id = $1 ORDER BY appointment_date ASC`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, workerID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
