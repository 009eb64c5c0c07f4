package worker

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
)

type fakeWorkerRepo struct {
	workers map[string]*model.Worker // keyed by health ID
	aadhaar map[string]bool
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{
		workers: make(map[string]*model.Worker),
		aadhaar: make(map[string]bool),
	}
}

func (r *fakeWorkerRepo) Create(_ context.Context, worker *model.Worker) error {
	if _, ok := r.workers[worker.HealthID]; ok {
		return repository.ErrDuplicate
	}
	r.workers[worker.HealthID] = worker
	r.aadhaar[worker.AadhaarNumber] = true
	return nil
}

func (r *fakeWorkerRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Worker, error) {
	for _, w := range r.workers {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkerRepo) GetByHealthID(_ context.Context, healthID string) (*model.Worker, error) {
	w, ok := r.workers[healthID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return w, nil
}

func (r *fakeWorkerRepo) GetByMobileNumber(_ context.Context, mobileNumber string) (*model.Worker, error) {
	for _, w := range r.workers {
		if w.MobileNumber == mobileNumber {
			return w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkerRepo) ExistsByAadhaar(_ context.Context, aadhaarNumber string) (bool, error) {
	return r.aadhaar[aadhaarNumber], nil
}

func (r *fakeWorkerRepo) ExistsByHealthID(_ context.Context, healthID string) (bool, error) {
	_, ok := r.workers[healthID]
	return ok, nil
}

func (r *fakeWorkerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.workers)), nil
}

func validRequest() *model.RegisterWorkerRequest {
	return &model.RegisterWorkerRequest{
		Name:          "Ramesh Kumar",
		MobileNumber:  "9876543210",
		Email:         "ramesh@example.com",
		Address:       "Kochi",
		DateOfBirth:   "1990-05-14",
		AadhaarNumber: "123456789012",
	}
}

func TestRegisterAssignsDeterministicHealthID(t *testing.T) {
	repo := newFakeWorkerRepo()
	svc := NewService(repo, nil, nil, nil)

	result, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "RA9012", result.HealthID)
	assert.Equal(t, "RA9012", result.Worker.HealthID)
	assert.NotEqual(t, uuid.Nil, result.Worker.ID)
}

func TestRegisterRejectsBadAadhaar(t *testing.T) {
	svc := NewService(newFakeWorkerRepo(), nil, nil, nil)

	for _, aadhaar := range []string{"12345", "12345678901a", "1234567890123", ""} {
		req := validRequest()
		req.AadhaarNumber = aadhaar

		_, err := svc.Register(context.Background(), req)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok, "aadhaar %q", aadhaar)
		assert.Equal(t, 400, appErr.Code)
	}
}

func TestRegisterRejectsBadDateOfBirth(t *testing.T) {
	svc := NewService(newFakeWorkerRepo(), nil, nil, nil)

	req := validRequest()
	req.DateOfBirth = "14-05-1990"

	_, err := svc.Register(context.Background(), req)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestRegisterRejectsDuplicateAadhaar(t *testing.T) {
	repo := newFakeWorkerRepo()
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.MobileNumber = "9999999999"
	_, err = svc.Register(context.Background(), req)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
}

func TestRegisterResolvesHealthIDCollision(t *testing.T) {
	repo := newFakeWorkerRepo()
	svc := NewService(repo, nil, nil, nil)

	// A different worker already holds the base code RA9012.
	repo.workers["RA9012"] = &model.Worker{HealthID: "RA9012", AadhaarNumber: "000000009012"}

	result, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "RA9013", result.HealthID)
}

func TestRegisterExhaustsCandidates(t *testing.T) {
	repo := newFakeWorkerRepo()
	svc := NewService(repo, nil, nil, nil)

	// Occupy the full candidate window.
	for _, c := range healthIDCandidates("Ramesh Kumar", "123456789012") {
		repo.workers[c] = &model.Worker{HealthID: c}
	}

	_, err := svc.Register(context.Background(), validRequest())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
}

func TestGetByHealthIDNotFound(t *testing.T) {
	svc := NewService(newFakeWorkerRepo(), nil, nil, nil)

	_, err := svc.GetByHealthID(context.Background(), "ZZ0000")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
}
