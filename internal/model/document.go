package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalDocument is the index entry for an uploaded file. The bytes live in
// the blob store under FilePath; this row only points at them.
type MedicalDocument struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	WorkerID        uuid.UUID  `db:"worker_id" json:"worker_id"`
	MedicalRecordID *uuid.UUID `db:"medical_record_id" json:"medical_record_id,omitempty"`
	FileName        string     `db:"file_name" json:"file_name"`
	FilePath        string     `db:"file_path" json:"file_path"`
	FileType        string     `db:"file_type" json:"file_type"`
	FileSize        int64      `db:"file_size" json:"file_size"`
	UploadedBy      string     `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
