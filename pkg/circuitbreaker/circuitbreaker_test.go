package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePassesThroughWhenClosed(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxRequests: 3, Timeout: time.Minute})

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "closed", cb.State())
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxRequests: 3, Timeout: time.Minute})
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		assert.Equal(t, boom, cb.Execute(func() error { return boom }))
	}
	assert.Equal(t, "open", cb.State())

	// Calls are rejected without invoking fn while open.
	err := cb.Execute(func() error {
		t.Fatal("fn should not run while open")
		return nil
	})
	assert.Error(t, err)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxRequests: 2, Timeout: time.Minute})
	boom := errors.New("boom")

	require.Error(t, cb.Execute(func() error { return boom }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return boom }))

	assert.Equal(t, "closed", cb.State())
}

func TestHalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxRequests: 1, Timeout: 5 * time.Millisecond})

	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))
	require.Equal(t, "open", cb.State())

	time.Sleep(10 * time.Millisecond)

	// After the timeout one probe is allowed; its success closes the breaker.
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, "closed", cb.State())
}
