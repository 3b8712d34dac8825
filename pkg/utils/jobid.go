package utils

import (
	"math/big"

	"github.com/google/uuid"
)

const (
	jobIDLength   = 16
	jobIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var jobIDBase = big.NewInt(int64(len(jobIDAlphabet)))

// NewJobID returns a 16 character alphanumeric identifier taken from the
// low-order base-62 digits of a random (v4) UUID, which gives about 89 bits
// of randomness. It never looks at any user supplied or remote content.
func NewJobID() string {
	u := uuid.New()
	n := new(big.Int).SetBytes(u[:])
	digit := new(big.Int)

	id := make([]byte, jobIDLength)
	for i := jobIDLength - 1; i >= 0; i-- {
		n.DivMod(n, jobIDBase, digit)
		id[i] = jobIDAlphabet[digit.Int64()]
	}
	return string(id)
}

func IsJobID(s string) bool {
	if len(s) != jobIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return false
		}
	}
	return true
}
