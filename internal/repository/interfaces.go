package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyaid/health-api/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate")

type WorkerRepository interface {
	Create(ctx context.Context, worker *model.Worker) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Worker, error)
	GetByHealthID(ctx context.Context, healthID string) (*model.Worker, error)
	GetByMobileNumber(ctx context.Context, mobileNumber string) (*model.Worker, error)
	ExistsByAadhaar(ctx context.Context, aadhaarNumber string) (bool, error)
	ExistsByHealthID(ctx context.Context, healthID string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	GetByDoctorID(ctx context.Context, doctorID string) (*model.Doctor, error)
	ExistsByAadhaar(ctx context.Context, aadhaarNumber string) (bool, error)
}

type OTPRepository interface {
	Create(ctx context.Context, otp *model.WorkerOTP) error
	DeleteForNumber(ctx context.Context, mobileNumber string) error
	// GetActive returns the live (unused, unexpired) row for the number.
	GetActive(ctx context.Context, mobileNumber string) (*model.WorkerOTP, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	// DeleteStale removes used rows and rows expired before the cutoff.
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

type RecordRepository interface {
	// CreateLinked commits the record, the optional appointment, the optional
	// document row and the outbox event in a single transaction. The upload
	// callback runs inside the transaction window, before the document row is
	// written; its failure rolls everything back.
	CreateLinked(ctx context.Context, record *model.MedicalRecord, appointment *model.Appointment,
		document *model.MedicalDocument, event *model.OutboxEvent, upload func() error) error
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*model.MedicalRecord, error)
	Count(ctx context.Context) (int64, error)
}

type AppointmentRepository interface {
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*model.Appointment, error)
}

type DocumentRepository interface {
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*model.MedicalDocument, error)
	Count(ctx context.Context) (int64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}

type StatsRepository interface {
	// RecomputeDistrict rebuilds the district's aggregate row from the source
	// tables. Idempotent, so at-least-once event delivery is safe.
	RecomputeDistrict(ctx context.Context, district string) error
	ListDistricts(ctx context.Context) ([]*model.DistrictStats, error)
}
