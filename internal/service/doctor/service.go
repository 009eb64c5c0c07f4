package doctor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/pkg/auth"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
)

var (
	// Government registration numbers look like KL/12345/2021.
	governmentIDPattern = regexp.MustCompile(`^[A-Z]{2}/\d+/\d{4}$`)
	// Private-practice codes are generated at registration: PVTHPTL-0341.
	privateIDPattern = regexp.MustCompile(`^PVTHPTL-\d{4}$`)

	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
)

const privateIDPrefix = "PVTHPTL-"

type Service struct {
	repo   repository.DoctorRepository
	jwtSvc auth.JWTService
}

func NewService(repo repository.DoctorRepository, jwtSvc auth.JWTService) *Service {
	return &Service{repo: repo, jwtSvc: jwtSvc}
}

// GeneratePrivateDoctorID derives the private-practice code from the last
// four Aadhaar digits. Deterministic, like the worker health ID.
func GeneratePrivateDoctorID(aadhaarNumber string) string {
	return privateIDPrefix + aadhaarNumber[len(aadhaarNumber)-4:]
}

// Login classifies the submitted token and resolves the doctor. Private
// tokens must already be registered. An unknown government token is a
// combined first-login-and-register path and requires name and hospital.
func (s *Service) Login(ctx context.Context, req *model.DoctorLoginRequest) (*model.DoctorLoginResponse, error) {
	token := strings.TrimSpace(req.DoctorID)

	switch {
	case privateIDPattern.MatchString(token):
		return s.loginPrivate(ctx, token)
	case governmentIDPattern.MatchString(token):
		return s.loginGovernment(ctx, token, req)
	default:
		return nil, apperrors.BadRequest(
			"invalid ID format, use an NMR ID (e.g. KL/12345/2021) or a private ID (e.g. PVTHPTL-0341)", nil)
	}
}

func (s *Service) loginPrivate(ctx context.Context, token string) (*model.DoctorLoginResponse, error) {
	doctor, err := s.repo.GetByDoctorID(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFoundMsg("doctor not found, please check your ID or register first")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up doctor: %w", err)
	}
	return s.respond(doctor)
}

func (s *Service) loginGovernment(ctx context.Context, token string, req *model.DoctorLoginRequest) (*model.DoctorLoginResponse, error) {
	doctor, err := s.repo.GetByDoctorID(ctx, token)
	if err == nil {
		return s.respond(doctor)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up doctor: %w", err)
	}

	// First login doubles as registration and needs the full identity.
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.HospitalName) == "" {
		return nil, apperrors.BadRequest("registration incomplete: name and hospital name are required on first login", nil)
	}

	regNumber := token
	doctor = &model.Doctor{
		Base: model.Base{
			ID: uuid.New(),
		},
		Name:               req.Name,
		HospitalName:       req.HospitalName,
		DoctorType:         model.DoctorTypeGovernment,
		DoctorID:           token,
		RegistrationNumber: &regNumber,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent first login; resolve to the winner.
			return s.loginPrivateOrGovernment(ctx, token)
		}
		return nil, fmt.Errorf("failed to register government doctor: %w", err)
	}
	return s.respond(doctor)
}

func (s *Service) loginPrivateOrGovernment(ctx context.Context, token string) (*model.DoctorLoginResponse, error) {
	doctor, err := s.repo.GetByDoctorID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up doctor: %w", err)
	}
	return s.respond(doctor)
}

// Register creates a private-practice doctor with a generated code. Private
// doctors must complete this step before they can log in.
func (s *Service) Register(ctx context.Context, req *model.RegisterDoctorRequest) (*model.DoctorLoginResponse, error) {
	if !aadhaarPattern.MatchString(req.AadhaarNumber) {
		return nil, apperrors.BadRequest("aadhaar number must be exactly 12 digits", nil)
	}

	exists, err := s.repo.ExistsByAadhaar(ctx, req.AadhaarNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check aadhaar: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("doctor with this aadhaar number is already registered", nil)
	}

	doctorID := GeneratePrivateDoctorID(req.AadhaarNumber)
	if _, err := s.repo.GetByDoctorID(ctx, doctorID); err == nil {
		return nil, apperrors.Conflict(
			fmt.Sprintf("already registered with ID %s, please use login", doctorID), nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check doctor id: %w", err)
	}

	doctor := &model.Doctor{
		Base: model.Base{
			ID: uuid.New(),
		},
		Name:          req.Name,
		HospitalName:  req.HospitalName,
		DoctorType:    model.DoctorTypePrivate,
		DoctorID:      doctorID,
		AadhaarNumber: &req.AadhaarNumber,
		MobileNumber:  &req.MobileNumber,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("doctor with these details is already registered", err)
		}
		return nil, fmt.Errorf("failed to register doctor: %w", err)
	}
	return s.respond(doctor)
}

func (s *Service) respond(doctor *model.Doctor) (*model.DoctorLoginResponse, error) {
	token, err := s.jwtSvc.GenerateToken(&auth.Principal{
		ID:       doctor.ID,
		Type:     auth.PrincipalDoctor,
		PublicID: doctor.DoctorID,
		Name:     doctor.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.DoctorLoginResponse{Doctor: doctor, Token: token}, nil
}
