package model

import (
	"time"

	"github.com/google/uuid"
)

// Worker is a migrant laborer identity record. The HealthID is the short
// human-facing code derived from the worker's name and Aadhaar number; it is
// unique across all workers, as is the Aadhaar number itself.
type Worker struct {
	Base
	HealthID      string  `db:"health_id" json:"health_id"`
	Name          string  `db:"name" json:"name"`
	MobileNumber  string  `db:"mobile_number" json:"mobile_number"`
	Email         string  `db:"email" json:"email"`
	Address       string  `db:"address" json:"address"`
	DateOfBirth   string  `db:"date_of_birth" json:"date_of_birth"`
	AadhaarNumber string  `db:"aadhaar_number" json:"aadhaar_number"`
	District      *string `db:"district" json:"district,omitempty"`
}

type RegisterWorkerRequest struct {
	Name          string  `json:"name" binding:"required"`
	MobileNumber  string  `json:"mobile_number" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Address       string  `json:"address" binding:"required"`
	DateOfBirth   string  `json:"date_of_birth" binding:"required"`
	AadhaarNumber string  `json:"aadhaar_number" binding:"required,aadhaar"`
	District      *string `json:"district"`
}

type RegisterWorkerResponse struct {
	Worker   *Worker `json:"worker"`
	HealthID string  `json:"health_id"`
}

// WorkerOTP is an ephemeral login credential. The code itself is stored only
// as a bcrypt hash; at most one live (unused, unexpired) row per mobile number
// is authoritative, enforced by delete-before-insert at issuance.
type WorkerOTP struct {
	ID           uuid.UUID `db:"id" json:"id"`
	MobileNumber string    `db:"mobile_number" json:"mobile_number"`
	CodeHash     string    `db:"code_hash" json:"-"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	Used         bool      `db:"used" json:"used"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type SendOTPRequest struct {
	MobileNumber string `json:"mobile_number" binding:"required"`
}

type VerifyOTPRequest struct {
	MobileNumber string `json:"mobile_number" binding:"required"`
	OTP          string `json:"otp" binding:"required"`
}
