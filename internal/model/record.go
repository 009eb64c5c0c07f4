package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is one doctor-authored clinical encounter. The doctor fields
// are a point-in-time snapshot taken at write time, not a live reference.
// Records are immutable once created.
type MedicalRecord struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	WorkerID            uuid.UUID  `db:"worker_id" json:"worker_id"`
	DoctorName          string     `db:"doctor_name" json:"doctor_name"`
	HospitalName        string     `db:"hospital_name" json:"hospital_name"`
	DoctorType          string     `db:"doctor_type" json:"doctor_type"`
	Diagnosis           string     `db:"diagnosis" json:"diagnosis"`
	Prescription        string     `db:"prescription" json:"prescription"`
	Notes               string     `db:"notes" json:"notes"`
	SuggestedTests      string     `db:"suggested_tests" json:"suggested_tests"`
	TestByWorker        string     `db:"test_by_worker" json:"test_by_worker"`
	VisitDate           time.Time  `db:"visit_date" json:"visit_date"`
	NextAppointmentDate *time.Time `db:"next_appointment_date" json:"next_appointment_date,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// DoctorSnapshot is the denormalized doctor identity written onto each record.
type DoctorSnapshot struct {
	Name         string
	HospitalName string
	DoctorType   string
}

type CreateRecordRequest struct {
	Diagnosis           string `form:"diagnosis" json:"diagnosis" binding:"required"`
	Prescription        string `form:"prescription" json:"prescription"`
	Notes               string `form:"notes" json:"notes"`
	SuggestedTests      string `form:"suggested_tests" json:"suggested_tests"`
	TestByWorker        string `form:"test_by_worker" json:"test_by_worker"`
	VisitDate           string `form:"visit_date" json:"visit_date"`
	NextAppointmentDate string `form:"next_appointment_date" json:"next_appointment_date"`
}

type CreateRecordResponse struct {
	Record      *MedicalRecord   `json:"record"`
	Appointment *Appointment     `json:"appointment,omitempty"`
	Document    *MedicalDocument `json:"document,omitempty"`
}
