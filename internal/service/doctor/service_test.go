package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyaid/health-api/internal/model"
	"github.com/swasthyaid/health-api/internal/repository"
	"github.com/swasthyaid/health-api/pkg/auth"
	apperrors "github.com/swasthyaid/health-api/pkg/errors"
)

type fakeDoctorRepo struct {
	byDoctorID map[string]*model.Doctor
	byAadhaar  map[string]bool
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{
		byDoctorID: make(map[string]*model.Doctor),
		byAadhaar:  make(map[string]bool),
	}
}

func (r *fakeDoctorRepo) Create(_ context.Context, doctor *model.Doctor) error {
	if _, ok := r.byDoctorID[doctor.DoctorID]; ok {
		return repository.ErrDuplicate
	}
	r.byDoctorID[doctor.DoctorID] = doctor
	if doctor.AadhaarNumber != nil {
		r.byAadhaar[*doctor.AadhaarNumber] = true
	}
	return nil
}

func (r *fakeDoctorRepo) GetByDoctorID(_ context.Context, doctorID string) (*model.Doctor, error) {
	d, ok := r.byDoctorID[doctorID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (r *fakeDoctorRepo) ExistsByAadhaar(_ context.Context, aadhaarNumber string) (bool, error) {
	return r.byAadhaar[aadhaarNumber], nil
}

func newTestService(repo *fakeDoctorRepo) *Service {
	return NewService(repo, auth.NewJWTService("test-secret", time.Hour))
}

func TestGeneratePrivateDoctorID(t *testing.T) {
	assert.Equal(t, "PVTHPTL-9012", GeneratePrivateDoctorID("123456789012"))
	assert.Equal(t, "PVTHPTL-0341", GeneratePrivateDoctorID("999999990341"))
}

func TestLoginRejectsMalformedToken(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo())

	for _, token := range []string{"garbage", "kl/12345/2021", "PVTHPTL-12", "KL/abc/2021", ""} {
		_, err := svc.Login(context.Background(), &model.DoctorLoginRequest{DoctorID: token})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok, "token %q", token)
		assert.Equal(t, 400, appErr.Code, "token %q", token)
	}
}

func TestLoginPrivateUnknown(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo())

	_, err := svc.Login(context.Background(), &model.DoctorLoginRequest{DoctorID: "PVTHPTL-0341"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
}

func TestLoginPrivateKnown(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), &model.RegisterDoctorRequest{
		Name:          "Dr. Priya",
		HospitalName:  "City Clinic",
		MobileNumber:  "9876543210",
		AadhaarNumber: "123456780341",
	})
	require.NoError(t, err)
	assert.Equal(t, "PVTHPTL-0341", registered.Doctor.DoctorID)

	result, err := svc.Login(context.Background(), &model.DoctorLoginRequest{DoctorID: "PVTHPTL-0341"})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Priya", result.Doctor.Name)
	assert.NotEmpty(t, result.Token)
}

func TestLoginGovernmentFirstLoginRequiresIdentity(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo())

	_, err := svc.Login(context.Background(), &model.DoctorLoginRequest{DoctorID: "KL/12345/2021"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.Contains(t, appErr.Message, "name and hospital name")
}

func TestLoginGovernmentFirstLoginRegisters(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := newTestService(repo)

	result, err := svc.Login(context.Background(), &model.DoctorLoginRequest{
		DoctorID:     "KL/12345/2021",
		Name:         "Dr. Nair",
		HospitalName: "District Hospital",
	})
	require.NoError(t, err)

	assert.Equal(t, model.DoctorTypeGovernment, result.Doctor.DoctorType)
	assert.Equal(t, "KL/12345/2021", result.Doctor.DoctorID)
	require.NotNil(t, result.Doctor.RegistrationNumber)
	assert.Equal(t, "KL/12345/2021", *result.Doctor.RegistrationNumber)
	assert.NotEmpty(t, result.Token)

	// Subsequent logins skip the identity fields.
	again, err := svc.Login(context.Background(), &model.DoctorLoginRequest{DoctorID: "KL/12345/2021"})
	require.NoError(t, err)
	assert.Equal(t, result.Doctor.ID, again.Doctor.ID)
}

func TestLoginIssuesDoctorPrincipal(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo())

	result, err := svc.Login(context.Background(), &model.DoctorLoginRequest{
		DoctorID:     "KL/12345/2021",
		Name:         "Dr. Nair",
		HospitalName: "District Hospital",
	})
	require.NoError(t, err)

	principal, err := auth.NewJWTService("test-secret", time.Hour).ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.PrincipalDoctor, principal.Type)
	assert.Equal(t, "KL/12345/2021", principal.PublicID)
}

func TestRegisterRejectsBadAadhaar(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo())

	_, err := svc.Register(context.Background(), &model.RegisterDoctorRequest{
		Name:          "Dr. Priya",
		HospitalName:  "City Clinic",
		MobileNumber:  "9876543210",
		AadhaarNumber: "1234",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestRegisterDuplicateAadhaar(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo())

	req := &model.RegisterDoctorRequest{
		Name:          "Dr. Priya",
		HospitalName:  "City Clinic",
		MobileNumber:  "9876543210",
		AadhaarNumber: "123456780341",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
}

func TestRegisterDuplicateGeneratedID(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo())

	_, err := svc.Register(context.Background(), &model.RegisterDoctorRequest{
		Name:          "Dr. Priya",
		HospitalName:  "City Clinic",
		MobileNumber:  "9876543210",
		AadhaarNumber: "111111110341",
	})
	require.NoError(t, err)

	// Different aadhaar, same last four digits, same generated code.
	_, err = svc.Register(context.Background(), &model.RegisterDoctorRequest{
		Name:          "Dr. Anand",
		HospitalName:  "Other Clinic",
		MobileNumber:  "9999999999",
		AadhaarNumber: "222222220341",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
	assert.Contains(t, appErr.Message, "PVTHPTL-0341")
}
