// Package keys generates the short role-prefixed identifiers used as primary
// keys across the store (PAT20001, MED48210, ...). The prefix is part of the
// public surface: collaborators dispatch on it, so it must be stable.
package keys

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

type Prefix string

const (
	Patient              Prefix = "PAT"
	Doctor               Prefix = "DOC"
	Guardian             Prefix = "GUA"
	Medicine             Prefix = "MED"
	Schedule             Prefix = "SCH"
	Appointment          Prefix = "APT"
	DoctorQuery          Prefix = "DQ"
	GuardianRequest      Prefix = "REQ"
	PatientDoctorRequest Prefix = "PDR"
	Prescription         Prefix = "PRESC"
	MedicalTest          Prefix = "TEST"
)

const suffixDigits = 5

// New returns a fresh identifier with the given prefix and a random
// zero-padded numeric suffix. Uniqueness is enforced by the store's primary
// key; callers retry on a duplicate-key error.
func New(p Prefix) string {
	max := big.NewInt(1)
	for i := 0; i < suffixDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken;
		// there is no reasonable recovery at this level.
		panic(fmt.Sprintf("keys: reading entropy: %v", err))
	}
	return fmt.Sprintf("%s%0*d", p, suffixDigits, n)
}

// HasPrefix reports whether key carries the expected entity prefix.
func HasPrefix(key string, p Prefix) bool {
	return len(key) > len(p) && key[:len(p)] == string(p)
}
