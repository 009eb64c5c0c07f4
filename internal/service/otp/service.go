package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/notifier"
	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/pkg/auth"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
	"github.com/swasthyaid/health-api/pkg/logger"
	"github.com/swasthyaid/health-api/pkg/metrics"
)

// Verification failures are deliberately indistinguishable: wrong code,
// expired, already used and nonexistent all yield this error so callers
// cannot enumerate live codes. Issuance, by contrast, does reveal whether a
// number is registered; that is the login gate working as intended.
var errInvalidOTP = apperrors.BadRequest("invalid or expired OTP", nil)

type IssueResult struct {
	// Code is only populated in dev mode; production dispatches the code
	// out-of-band and never returns it to the caller.
	Code string `json:"otp,omitempty"`
}

type VerifyResult struct {
	Worker *model.Worker `json:"worker"`
	Token  string        `json:"token"`
}

type Service struct {
	otpRepo    repository.OTPRepository
	workerRepo repository.WorkerRepository
	jwtSvc     auth.JWTService
	notifier   notifier.OTPNotifier
	logger     *logger.Logger
	metrics    *metrics.Metrics
	expiry     time.Duration
	devMode    bool
}

func NewService(otpRepo repository.OTPRepository, workerRepo repository.WorkerRepository,
	jwtSvc auth.JWTService, notif notifier.OTPNotifier, log *logger.Logger,
	m *metrics.Metrics, expiry time.Duration, devMode bool) *Service {
	if expiry <= 0 {
		expiry = 10 * time.Minute
	}
	return &Service{
		otpRepo:    otpRepo,
		workerRepo: workerRepo,
		jwtSvc:     jwtSvc,
		notifier:   notif,
		logger:     log,
		metrics:    m,
		expiry:     expiry,
		devMode:    devMode,
	}
}

// Issue generates a fresh 6-digit code for a registered mobile number. Prior
// codes for the number are invalidated by deletion first; the delete and the
// insert are not one transaction, which is an accepted race for this
// low-stakes login path.
func (s *Service) Issue(ctx context.Context, mobileNumber string) (*IssueResult, error) {
	worker, err := s.workerRepo.GetByMobileNumber(ctx, mobileNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFoundMsg("number not registered, please register first to use OTP login")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up mobile number: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash OTP: %w", err)
	}

	if err := s.otpRepo.DeleteForNumber(ctx, mobileNumber); err != nil {
		// Best-effort invalidation of prior codes.
		s.logger.Error(err, "failed to delete prior OTPs", "mobile_number", mobileNumber)
	}

	record := &model.WorkerOTP{
		ID:           uuid.New(),
		MobileNumber: mobileNumber,
		CodeHash:     string(hash),
		ExpiresAt:    time.Now().Add(s.expiry),
		Used:         false,
	}
	if err := s.otpRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	if worker.Email != "" {
		if err := s.notifier.SendOTP(worker.Email, worker.Name, code); err != nil {
			s.logger.Error(err, "failed to dispatch OTP notification", "mobile_number", mobileNumber)
		}
	}

	s.metrics.OTPIssued.Inc()

	result := &IssueResult{}
	if s.devMode {
		result.Code = code
	}
	return result, nil
}

// Verify checks the submitted code against the live row for the number,
// consumes it and returns the worker with a session token.
func (s *Service) Verify(ctx context.Context, mobileNumber, code string) (*VerifyResult, error) {
	record, err := s.otpRepo.GetActive(ctx, mobileNumber)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.OTPVerified.WithLabelValues("rejected").Inc()
		return nil, errInvalidOTP
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up OTP: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)); err != nil {
		s.metrics.OTPVerified.WithLabelValues("rejected").Inc()
		return nil, errInvalidOTP
	}

	// Replay guard: consume before returning the identity.
	if err := s.otpRepo.MarkUsed(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("failed to consume OTP: %w", err)
	}

	worker, err := s.workerRepo.GetByMobileNumber(ctx, mobileNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFoundMsg("worker not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}

	token, err := s.jwtSvc.GenerateToken(&auth.Principal{
		ID:       worker.ID,
		Type:     auth.PrincipalWorker,
		PublicID: worker.HealthID,
		Name:     worker.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.OTPVerified.WithLabelValues("accepted").Inc()

	// Housekeeping, never fails the verification.
	go s.cleanupStale()

	return &VerifyResult{Worker: worker, Token: token}, nil
}

func (s *Service) cleanupStale() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.otpRepo.DeleteStale(ctx, time.Now()); err != nil {
		s.logger.Error(err, "failed to clean up stale OTPs")
	}
}

// generateCode draws a uniform value in [0, 999999] and renders it as a
// fixed-width 6-digit string.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
