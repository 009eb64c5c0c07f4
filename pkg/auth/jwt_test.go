package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	principal := &Principal{
		ID:       uuid.New(),
		Type:     PrincipalDoctor,
		PublicID: "KL/12345/2021",
		Name:     "Dr. Nair",
	}

	token, err := svc.GenerateToken(principal)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal.ID, parsed.ID)
	assert.Equal(t, PrincipalDoctor, parsed.Type)
	assert.Equal(t, "KL/12345/2021", parsed.PublicID)
	assert.Equal(t, "Dr. Nair", parsed.Name)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour).GenerateToken(&Principal{
		ID:   uuid.New(),
		Type: PrincipalWorker,
	})
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", time.Nanosecond)

	token, err := svc.GenerateToken(&Principal{ID: uuid.New(), Type: PrincipalWorker})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
