// Package mlkem implements ML-KEM (Module-Lattice Key Encapsulation
// Mechanism) as specified in [NIST FIPS 203].
//
// ML-KEM is a post-quantum key encapsulation mechanism whose hardness
// rests on the Module Learning With Errors problem over the cyclotomic
// ring ℤ_q[x]/(x²⁵⁶+1), q = 3329. This package supports all three
// parameter sets:
//   - ML-KEM-512:  NIST security category 1
//   - ML-KEM-768:  NIST security category 3 (recommended default)
//   - ML-KEM-1024: NIST security category 5
//
// Basic usage:
//
//	dk, err := mlkem.GenerateKey768(rand.Reader)
//	if err != nil {
//	    // handle error
//	}
//	ek := dk.EncapsulationKey()
//	ct, secret, err := ek.Encapsulate(rand.Reader)
//	if err != nil {
//	    // handle error
//	}
//	secret2, err := dk.Decapsulate(ct)
//	// secret == secret2
//
// Decapsulate never fails for a ciphertext of the correct length: per
// FIPS 203's implicit-rejection construction, a tampered ciphertext
// yields a pseudorandom shared secret instead of an error, preserving
// IND-CCA2 security (see spec.md §7).
package mlkem

import "errors"

// Global ML-KEM constants from FIPS 203.
const (
	// n is the number of coefficients in a polynomial.
	n = 256

	// q is the modulus: q = 3329.
	q = 3329

	// zeta is the primitive 256th root of unity mod q used to build the NTT.
	zeta = 17

	// SeedSize is the size in bytes of each of the two KeyGen seeds (d, z)
	// and of the Encapsulate message seed m.
	SeedSize = 32

	// SharedKeySize is the size in bytes of the shared secret K produced
	// by Encapsulate and Decapsulate.
	SharedKeySize = 32
)

// Errors returned by key and ciphertext parsing. Decapsulate itself never
// returns an error for a well-formed (correctly sized) ciphertext — see
// the package doc.
var (
	// ErrInvalidKeyEncoding is returned when an encapsulation key's bytes
	// decode to a coefficient ≥ q, or fail the ByteEncode/ByteDecode
	// round-trip check required by FIPS 203 (spec.md §4.7).
	ErrInvalidKeyEncoding = errors.New("mlkem: invalid encapsulation key encoding")

	// ErrInvalidPrivateKey is returned when a decapsulation key has the
	// wrong length, or its embedded H(ek) does not match the recomputed
	// hash of its embedded encapsulation key.
	ErrInvalidPrivateKey = errors.New("mlkem: invalid decapsulation key")

	// ErrInvalidCiphertextLength is returned when a ciphertext's length
	// does not match the parameter set's fixed size.
	ErrInvalidCiphertextLength = errors.New("mlkem: invalid ciphertext length")

	// ErrRngFailure is returned when the caller-supplied entropy source
	// fails to produce random bytes.
	ErrRngFailure = errors.New("mlkem: entropy source failure")
)
