package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateHealthID(t *testing.T) {
	tests := []struct {
		name    string
		aadhaar string
		want    string
	}{
		{"Ramesh Kumar", "123456789012", "RA9012"},
		{"anita", "999900005678", "AN5678"},
		{" bala ji ", "111122223333", "BA3333"},
		{"A B", "123456780000", "AB0000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateHealthID(tt.name, tt.aadhaar))
	}
}

func TestGenerateHealthIDFallbackPrefix(t *testing.T) {
	// Names without two latin letters fall back to the WK prefix.
	assert.Equal(t, "WK1234", GenerateHealthID("42", "999999991234"))
	assert.Equal(t, "WK1234", GenerateHealthID("", "999999991234"))
	assert.Equal(t, "WK1234", GenerateHealthID("र", "999999991234"))
}

func TestGenerateHealthIDIsDeterministic(t *testing.T) {
	first := GenerateHealthID("Ramesh Kumar", "123456789012")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, GenerateHealthID("Ramesh Kumar", "123456789012"))
	}
}

func TestHealthIDCandidates(t *testing.T) {
	candidates := healthIDCandidates("Ramesh", "123456789012")

	assert.Len(t, candidates, maxIDCandidates)
	assert.Equal(t, "RA9012", candidates[0])
	assert.Equal(t, "RA9013", candidates[1])
	assert.Equal(t, "RA9021", candidates[9])

	// Every candidate shares the prefix and stays 6 characters.
	for _, c := range candidates {
		assert.Len(t, c, 6)
		assert.Equal(t, "RA", c[:2])
	}
}

func TestHealthIDCandidatesWrapAround(t *testing.T) {
	candidates := healthIDCandidates("Ramesh", "123456789998")

	assert.Equal(t, "RA9998", candidates[0])
	assert.Equal(t, "RA9999", candidates[1])
	assert.Equal(t, "RA0000", candidates[2])
	assert.Equal(t, "RA0001", candidates[3])
}
