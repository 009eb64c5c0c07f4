package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

// Appointment is a follow-up visit derived from a medical record that named a
// next appointment date. Purpose is copied from the record's diagnosis.
type Appointment struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	WorkerID        uuid.UUID         `db:"worker_id" json:"worker_id"`
	DoctorName      string            `db:"doctor_name" json:"doctor_name"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	AppointmentTime *string           `db:"appointment_time" json:"appointment_time,omitempty"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Purpose         string            `db:"purpose" json:"purpose"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
}
