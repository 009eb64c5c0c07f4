package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
)

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*model.MedicalDocument, error) {
	query := `SELECT * FROM medical_documents WHERE worker_id = $1 ORDER BY created_at DESC`
	var documents []*model.MedicalDocument
	if err := r.db.SelectContext(ctx, &documents, query, workerID); err != nil {
		return nil, fmt.Errorf("failed to list medical documents: %w", err)
	}
	return documents, nil
}

func (r *documentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM medical_documents`); err != nil {
		return 0, fmt.Errorf("failed to count medical documents: %w", err)
	}
	return count, nil
}
