package otp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/pkg/auth"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
	"github.com/swasthyaid/health-api/pkg/logger"
	"github.com/swasthyaid/health-api/pkg/metrics"
)

// Shared across tests: prometheus collectors register globally once.
var testMetrics = metrics.NewMetrics("test", "otp")

// fakeOTPRepo is mutex-guarded because Verify kicks off a cleanup goroutine.
type fakeOTPRepo struct {
	mu   sync.Mutex
	otps map[uuid.UUID]*model.WorkerOTP
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{otps: make(map[uuid.UUID]*model.WorkerOTP)}
}

func (r *fakeOTPRepo) Create(_ context.Context, otp *model.WorkerOTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *otp
	r.otps[otp.ID] = &cp
	return nil
}

func (r *fakeOTPRepo) DeleteForNumber(_ context.Context, mobileNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.otps {
		if o.MobileNumber == mobileNumber {
			delete(r.otps, id)
		}
	}
	return nil
}

func (r *fakeOTPRepo) GetActive(_ context.Context, mobileNumber string) (*model.WorkerOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.WorkerOTP
	for _, o := range r.otps {
		if o.MobileNumber != mobileNumber || o.Used || o.ExpiresAt.Before(time.Now()) {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeOTPRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.otps[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Used = true
	return nil
}

func (r *fakeOTPRepo) DeleteStale(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, o := range r.otps {
		if o.Used || o.ExpiresAt.Before(before) {
			delete(r.otps, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeOTPRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.otps)
}

type fakeWorkerRepo struct {
	byMobile map[string]*model.Worker
}

func (r *fakeWorkerRepo) Create(context.Context, *model.Worker) error { return nil }

func (r *fakeWorkerRepo) GetByID(context.Context, uuid.UUID) (*model.Worker, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeWorkerRepo) GetByHealthID(context.Context, string) (*model.Worker, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeWorkerRepo) GetByMobileNumber(_ context.Context, mobileNumber string) (*model.Worker, error) {
	w, ok := r.byMobile[mobileNumber]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return w, nil
}

func (r *fakeWorkerRepo) ExistsByAadhaar(context.Context, string) (bool, error) { return false, nil }

func (r *fakeWorkerRepo) ExistsByHealthID(context.Context, string) (bool, error) { return false, nil }

func (r *fakeWorkerRepo) Count(context.Context) (int64, error) { return 0, nil }

type noopNotifier struct{}

func (noopNotifier) SendOTP(string, string, string) error { return nil }

func newTestService(otpRepo *fakeOTPRepo, workerRepo *fakeWorkerRepo, devMode bool) *Service {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewService(otpRepo, workerRepo, jwtSvc, noopNotifier{}, logger.NewLogger(nil),
		testMetrics, 10*time.Minute, devMode)
}

func registeredWorker() *fakeWorkerRepo {
	return &fakeWorkerRepo{byMobile: map[string]*model.Worker{
		"9876543210": {
			Base:         model.Base{ID: uuid.New()},
			HealthID:     "RA9012",
			Name:         "Ramesh Kumar",
			MobileNumber: "9876543210",
		},
	}}
}

func TestIssueUnregisteredNumber(t *testing.T) {
	svc := newTestService(newFakeOTPRepo(), &fakeWorkerRepo{byMobile: map[string]*model.Worker{}}, true)

	_, err := svc.Issue(context.Background(), "0000000000")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
}

func TestIssueStoresHashNotCode(t *testing.T) {
	otpRepo := newFakeOTPRepo()
	svc := newTestService(otpRepo, registeredWorker(), true)

	result, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	require.Len(t, result.Code, 6)

	require.Equal(t, 1, otpRepo.len())
	for _, stored := range otpRepo.otps {
		assert.NotEqual(t, result.Code, stored.CodeHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(result.Code)))
		assert.False(t, stored.Used)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), stored.ExpiresAt, time.Minute)
	}
}

func TestIssueOmitsCodeOutsideDevMode(t *testing.T) {
	svc := newTestService(newFakeOTPRepo(), registeredWorker(), false)

	result, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Empty(t, result.Code)
}

func TestIssueInvalidatesPriorCodes(t *testing.T) {
	otpRepo := newFakeOTPRepo()
	svc := newTestService(otpRepo, registeredWorker(), true)

	first, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	_, err = svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)

	// Only the latest code survives, so the first one no longer verifies.
	assert.Equal(t, 1, otpRepo.len())
	_, err = svc.Verify(context.Background(), "9876543210", first.Code)
	if err == nil {
		// The two codes can collide; only then would the first still pass.
		t.Skip("generated codes collided")
	}
}

func TestVerifyHappyPath(t *testing.T) {
	otpRepo := newFakeOTPRepo()
	svc := newTestService(otpRepo, registeredWorker(), true)

	issued, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)

	result, err := svc.Verify(context.Background(), "9876543210", issued.Code)
	require.NoError(t, err)

	assert.Equal(t, "RA9012", result.Worker.HealthID)
	assert.NotEmpty(t, result.Token)

	principal, err := auth.NewJWTService("test-secret", time.Hour).ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.PrincipalWorker, principal.Type)
	assert.Equal(t, "RA9012", principal.PublicID)
}

func TestVerifyWrongCodeIsGeneric(t *testing.T) {
	svc := newTestService(newFakeOTPRepo(), registeredWorker(), true)

	_, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "9876543210", "000000")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "invalid or expired OTP", appErr.Message)
}

func TestVerifyConsumesCode(t *testing.T) {
	svc := newTestService(newFakeOTPRepo(), registeredWorker(), true)

	issued, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "9876543210", issued.Code)
	require.NoError(t, err)

	// Single use: the same code is rejected with the generic error.
	_, err = svc.Verify(context.Background(), "9876543210", issued.Code)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "invalid or expired OTP", appErr.Message)
}

func TestVerifyExpiredCodeIsGeneric(t *testing.T) {
	otpRepo := newFakeOTPRepo()
	svc := newTestService(otpRepo, registeredWorker(), true)

	issued, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)

	for _, o := range otpRepo.otps {
		o.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err = svc.Verify(context.Background(), "9876543210", issued.Code)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "invalid or expired OTP", appErr.Message)
}

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
