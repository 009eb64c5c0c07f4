package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
)

type recordRepository struct {
	db *sqlx.DB
}

func NewRecordRepository(db *sqlx.DB) repository.RecordRepository {
	return &recordRepository{db: db}
}

// CreateLinked writes the record and its dependents in one transaction. The
// upload callback runs before the document row insert so a failed blob write
// rolls back every row, including the outbox event.
func (r *recordRepository) CreateLinked(ctx context.Context, record *model.MedicalRecord,
	appointment *model.Appointment, document *model.MedicalDocument,
	event *model.OutboxEvent, upload func() error) error {

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRecord(ctx, tx, record); err != nil {
		return err
	}

	if appointment != nil {
		if err := insertAppointment(ctx, tx, appointment); err != nil {
			return err
		}
	}

	if document != nil {
		if upload != nil {
			if err := upload(); err != nil {
				return fmt.Errorf("failed to upload document: %w", err)
			}
		}
		if err := insertDocument(ctx, tx, document); err != nil {
			return err
		}
	}

	if event != nil {
		if err := insertOutboxEvent(ctx, tx, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx *sqlx.Tx, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (id, worker_id, doctor_name, hospital_name,
			doctor_type, diagnosis, prescription, notes, suggested_tests,
			test_by_worker, visit_date, next_appointment_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	record.CreatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		record.ID,
		record.WorkerID,
		record.DoctorName,
		record.HospitalName,
		record.DoctorType,
		record.Diagnosis,
		record.Prescription,
		record.Notes,
		record.SuggestedTests,
		record.TestByWorker,
		record.VisitDate,
		record.NextAppointmentDate,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func insertAppointment(ctx context.Context, tx *sqlx.Tx, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, worker_id, doctor_name, appointment_date,
			appointment_time, status, purpose, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	appointment.CreatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		appointment.ID,
		appointment.WorkerID,
		appointment.DoctorName,
		appointment.AppointmentDate,
		appointment.AppointmentTime,
		appointment.Status,
		appointment.Purpose,
		appointment.Notes,
		appointment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func insertDocument(ctx context.Context, tx *sqlx.Tx, document *model.MedicalDocument) error {
	query := `
		INSERT INTO medical_documents (id, worker_id, medical_record_id, file_name,
			file_path, file_type, file_size, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	document.CreatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		document.ID,
		document.WorkerID,
		document.MedicalRecordID,
		document.FileName,
		document.FilePath,
		document.FileType,
		document.FileSize,
		document.UploadedBy,
		document.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical document: %w", err)
	}
	return nil
}

func insertOutboxEvent(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	event.ID = uuid.New()
	event.Status = string(model.OutboxStatusPending)
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	_, err := tx.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *recordRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*model.MedicalRecord, error) {
	query := `SELECT * FROM medical_records WHERE worker_id = $1 ORDER BY created_at DESC`
	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, workerID); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (r *recordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM medical_records`); err != nil {
		return 0, fmt.Errorf("failed to count medical records: %w", err)
	}
	return count, nil
}
