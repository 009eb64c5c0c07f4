package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (id, name, hospital_name, doctor_type, doctor_id,
			registration_number, aadhaar_number, mobile_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.HospitalName,
		doctor.DoctorType,
		doctor.DoctorID,
		doctor.RegistrationNumber,
		doctor.AadhaarNumber,
		doctor.MobileNumber,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
		}
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) GetByDoctorID(ctx context.Context, doctorID string) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE doctor_id = $1`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, doctorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) ExistsByAadhaar(ctx context.Context, aadhaarNumber string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM doctors WHERE aadhaar_number = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, aadhaarNumber); err != nil {
		return false, fmt.Errorf("failed to check aadhaar: %w", err)
	}
	return exists, nil
}
