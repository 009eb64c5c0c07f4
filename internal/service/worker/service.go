package worker

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
)

var aadhaarPattern = regexp.MustCompile(`^\d{12}$`)

type Service struct {
	repo            repository.WorkerRepository
	recordRepo      repository.RecordRepository
	appointmentRepo repository.AppointmentRepository
	documentRepo    repository.DocumentRepository
}

func NewService(repo repository.WorkerRepository, recordRepo repository.RecordRepository,
	appointmentRepo repository.AppointmentRepository, documentRepo repository.DocumentRepository) *Service {
	return &Service{
		repo:            repo,
		recordRepo:      recordRepo,
		appointmentRepo: appointmentRepo,
		documentRepo:    documentRepo,
	}
}

// Register validates the request, allocates a unique health ID and persists
// the worker. Health-ID collisions are resolved by walking a deterministic
// candidate sequence rather than failing the registration outright.
func (s *Service) Register(ctx context.Context, req *model.RegisterWorkerRequest) (*model.RegisterWorkerResponse, error) {
	if !aadhaarPattern.MatchString(req.AadhaarNumber) {
		return nil, apperrors.BadRequest("aadhaar number must be exactly 12 digits", nil)
	}
	if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
		return nil, apperrors.BadRequest("date of birth must be in YYYY-MM-DD format", err)
	}

	exists, err := s.repo.ExistsByAadhaar(ctx, req.AadhaarNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check aadhaar: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("worker with this aadhaar number is already registered", nil)
	}

	healthID, err := s.allocateHealthID(ctx, req.Name, req.AadhaarNumber)
	if err != nil {
		return nil, err
	}

	worker := &model.Worker{
		Base: model.Base{
			ID: uuid.New(),
		},
		HealthID:      healthID,
		Name:          req.Name,
		MobileNumber:  req.MobileNumber,
		Email:         req.Email,
		Address:       req.Address,
		DateOfBirth:   req.DateOfBirth,
		AadhaarNumber: req.AadhaarNumber,
		District:      req.District,
	}

	if err := s.repo.Create(ctx, worker); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("worker with these details is already registered", err)
		}
		return nil, fmt.Errorf("failed to register worker: %w", err)
	}

	return &model.RegisterWorkerResponse{
		Worker:   worker,
		HealthID: healthID,
	}, nil
}

func (s *Service) allocateHealthID(ctx context.Context, name, aadhaarNumber string) (string, error) {
	for _, candidate := range healthIDCandidates(name, aadhaarNumber) {
		taken, err := s.repo.ExistsByHealthID(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check health id: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperrors.Conflict("could not allocate a unique health ID, please contact support", nil)
}

func (s *Service) GetByHealthID(ctx context.Context, healthID string) (*model.Worker, error) {
	worker, err := s.repo.GetByHealthID(ctx, healthID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("worker", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return worker, nil
}

func (s *Service) Records(ctx context.Context, healthID string) ([]*model.MedicalRecord, error) {
	worker, err := s.GetByHealthID(ctx, healthID)
	if err != nil {
		return nil, err
	}
	return s.recordRepo.ListByWorker(ctx, worker.ID)
}

func (s *Service) Appointments(ctx context.Context, healthID string) ([]*model.Appointment, error) {
	worker, err := s.GetByHealthID(ctx, healthID)
	if err != nil {
		return nil, err
	}
	return s.appointmentRepo.ListByWorker(ctx, worker.ID)
}

func (s *Service) Documents(ctx context.Context, healthID string) ([]*model.MedicalDocument, error) {
	worker, err := s.GetByHealthID(ctx, healthID)
	if err != nil {
		return nil, err
	}
	return s.documentRepo.ListByWorker(ctx, worker.ID)
}
