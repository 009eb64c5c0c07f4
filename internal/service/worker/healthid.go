package worker

import (
	"fmt"
	"strings"
)

// fallbackPrefix is used when the name yields fewer than two letters.
const fallbackPrefix = "WK"

// maxIDCandidates bounds the collision-resolution sequence tried at
// registration before the attempt is reported as a conflict.
const maxIDCandidates = 10

// GenerateHealthID derives the 6-character public health ID: the first two
// letters of the uppercased name (fallback WK) followed by the last four
// digits of the Aadhaar number. Deterministic, no randomness.
func GenerateHealthID(name, aadhaarNumber string) string {
	return namePrefix(name) + lastFour(aadhaarNumber)
}

// healthIDCandidates returns the deterministic sequence tried when the base
// code collides with an existing worker: the last four digits are incremented
// mod 10000.
func healthIDCandidates(name, aadhaarNumber string) []string {
	prefix := namePrefix(name)
	base := lastFourValue(aadhaarNumber)

	candidates := make([]string, 0, maxIDCandidates)
	for i := 0; i < maxIDCandidates; i++ {
		candidates = append(candidates, fmt.Sprintf("%s%04d", prefix, (base+i)%10000))
	}
	return candidates
}

func namePrefix(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	var letters []rune
	for _, r := range upper {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
			if len(letters) == 2 {
				break
			}
		}
	}
	if len(letters) < 2 {
		return fallbackPrefix
	}
	return string(letters)
}

func lastFour(aadhaarNumber string) string {
	if len(aadhaarNumber) < 4 {
		return aadhaarNumber
	}
	return aadhaarNumber[len(aadhaarNumber)-4:]
}

func lastFourValue(aadhaarNumber string) int {
	v := 0
	for _, r := range lastFour(aadhaarNumber) {
		if r < '0' || r > '9' {
			continue
		}
		v = v*10 + int(r-'0')
	}
	return v
}
