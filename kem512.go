package mlkem

import (
	"io"
)

// Parameters for ML-KEM-512 (spec.md §3, NIST security category 1).
const (
	k512    = 2
	eta1512 = 3
	eta2512 = 2
	du512   = 10
	dv512   = 4

	ekPKESize512 = 384*k512 + 32
	dkPKESize512 = 384 * k512

	// EncapsulationKeySize512 is the encoded size of an EncapsulationKey512.
	EncapsulationKeySize512 = ekPKESize512
	// DecapsulationKeySize512 is the encoded size of a DecapsulationKey512.
	DecapsulationKeySize512 = dkPKESize512 + ekPKESize512 + 32 + 32
	// CiphertextSize512 is the fixed ciphertext size for ML-KEM-512.
	CiphertextSize512 = 32 * (du512*k512 + dv512)
)

// EncapsulationKey512 is the public key for ML-KEM-512.
type EncapsulationKey512 struct {
	ekPKE []byte // ByteEncode_12(t̂) ‖ ρ
	h     [32]byte
}

// DecapsulationKey512 is the private key for ML-KEM-512.
type DecapsulationKey512 struct {
	dkPKE []byte
	ek    EncapsulationKey512
	z     [32]byte
}

// GenerateKey512 generates a fresh ML-KEM-512 key pair using rand as the
// entropy source for the two 32-byte KeyGen seeds d and z, per FIPS 203
// Algorithm 16 (ML-KEM.KeyGen).
//
// Grounded on mldsa/mldsa65.go's GenerateKey65/NewKey65 split (random-seed
// wrapper around a deterministic generate step).
func GenerateKey512(rand io.Reader) (*DecapsulationKey512, error) {
	var d, z [32]byte
	if _, err := io.ReadFull(rand, d[:]); err != nil {
		return nil, ErrRngFailure
	}
	if _, err := io.ReadFull(rand, z[:]); err != nil {
		return nil, ErrRngFailure
	}
	return newKey512(d, z), nil
}

// NewKeyFromSeed512 deterministically derives a key pair from a 64-byte
// seed (d ‖ z), per spec.md §4.6. This is the "expanded key" path used by
// ACVP known-answer tests.
func NewKeyFromSeed512(seed []byte) (*DecapsulationKey512, error) {
	if len(seed) != 64 {
		return nil, ErrInvalidPrivateKey
	}
	var d, z [32]byte
	copy(d[:], seed[:32])
	copy(z[:], seed[32:])
	return newKey512(d, z), nil
}

func newKey512(d, z [32]byte) *DecapsulationKey512 {
	ekPKE, dkPKE := kpkeKeyGen512(d)
	ek := EncapsulationKey512{ekPKE: ekPKE, h: hH(ekPKE)}
	return &DecapsulationKey512{dkPKE: dkPKE, ek: ek, z: z}
}

// EncapsulationKey returns the public encapsulation key for this key pair.
func (dk *DecapsulationKey512) EncapsulationKey() *EncapsulationKey512 {
	ek := dk.ek
	return &ek
}

// Bytes returns the encoded encapsulation key.
func (ek *EncapsulationKey512) Bytes() []byte {
	out := make([]byte, len(ek.ekPKE))
	copy(out, ek.ekPKE)
	return out
}

// Bytes returns the encoded decapsulation key: dkPKE ‖ ek ‖ H(ek) ‖ z.
func (dk *DecapsulationKey512) Bytes() []byte {
	out := make([]byte, 0, DecapsulationKeySize512)
	out = append(out, dk.dkPKE...)
	out = append(out, dk.ek.ekPKE...)
	out = append(out, dk.ek.h[:]...)
	out = append(out, dk.z[:]...)
	return out
}

// NewEncapsulationKey512 parses an encoded encapsulation key, rejecting any
// encoding whose coefficients don't round-trip through ByteEncode/ByteDecode
// (FIPS 203's modulus check, spec.md §4.7).
func NewEncapsulationKey512(b []byte) (*EncapsulationKey512, error) {
	if len(b) != EncapsulationKeySize512 {
		return nil, ErrInvalidKeyEncoding
	}
	for i := 0; i < k512; i++ {
		chunk := b[i*kpkeEncodingSize12 : (i+1)*kpkeEncodingSize12]
		re := byteDecode(12, chunk)
		if string(byteEncode(12, &re)) != string(chunk) {
			return nil, ErrInvalidKeyEncoding
		}
	}
	ek := &EncapsulationKey512{h: hH(b)}
	ek.ekPKE = make([]byte, len(b))
	copy(ek.ekPKE, b)
	return ek, nil
}

// NewDecapsulationKey512 parses an encoded decapsulation key, validating its
// length and recomputing H(ek) to check against the embedded hash, per
// spec.md §4.7.
func NewDecapsulationKey512(b []byte) (*DecapsulationKey512, error) {
	if len(b) != DecapsulationKeySize512 {
		return nil, ErrInvalidPrivateKey
	}
	dkPKE := b[:dkPKESize512]
	ekPKE := b[dkPKESize512 : dkPKESize512+ekPKESize512]
	h := b[dkPKESize512+ekPKESize512 : dkPKESize512+ekPKESize512+32]
	z := b[dkPKESize512+ekPKESize512+32:]

	if hH(ekPKE) != [32]byte(h) {
		return nil, ErrInvalidPrivateKey
	}

	dk := &DecapsulationKey512{}
	dk.dkPKE = make([]byte, len(dkPKE))
	copy(dk.dkPKE, dkPKE)
	dk.ek.ekPKE = make([]byte, len(ekPKE))
	copy(dk.ek.ekPKE, ekPKE)
	copy(dk.ek.h[:], h)
	copy(dk.z[:], z)
	return dk, nil
}

// Encapsulate generates a fresh shared secret and its encapsulation under
// ek, using rand to draw the 32-byte message seed m, per FIPS 203
// Algorithm 17 (ML-KEM.Encaps).
func (ek *EncapsulationKey512) Encapsulate(rand io.Reader) (ciphertext, sharedSecret []byte, err error) {
	var m [32]byte
	if _, err := io.ReadFull(rand, m[:]); err != nil {
		return nil, nil, ErrRngFailure
	}
	ct, ss := ek.encapsulateInternal(m)
	return ct, ss, nil
}

// EncapsulateWithSeed deterministically encapsulates against ek using
// the supplied 32-byte message seed m instead of fresh randomness, per
// spec.md §6's encaps_from_seed(ek, m) -> (ct, K). It is the public,
// reproducible counterpart to Encapsulate, symmetric with
// NewKeyFromSeed512/DecapsulateWithSeed512.
func (ek *EncapsulationKey512) EncapsulateWithSeed(m [32]byte) (ciphertext, sharedSecret []byte) {
	return ek.encapsulateInternal(m)
}

func (ek *EncapsulationKey512) encapsulateInternal(m [32]byte) (ciphertext, sharedSecret []byte) {
	kBytes, r := hG(m[:], ek.h[:])
	ct := kpkeEncrypt512(ek.ekPKE, m, r)
	return ct, kBytes[:]
}

// Decapsulate recovers the shared secret encapsulated in ciphertext, per
// FIPS 203 Algorithm 18 (ML-KEM.Decaps). It never returns an error for a
// ciphertext of the correct length: implicit rejection (spec.md §7) means a
// tampered ciphertext silently yields an unpredictable (but deterministic)
// shared secret rather than failing.
func (dk *DecapsulationKey512) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != CiphertextSize512 {
		return nil, ErrInvalidCiphertextLength
	}
	k, _ := dk.decapsulateInternal(ciphertext)
	return k, nil
}

// decapsulateInternal implements ML-KEM.Decaps_internal (spec.md §4.6),
// returning both the shared secret K and the recovered plaintext m' — the
// latter is only meaningful for diagnostic use (DecapsulateWithSeed512),
// since ordinary callers only ever want K.
func (dk *DecapsulationKey512) decapsulateInternal(ciphertext []byte) (sharedSecret, mPrime []byte) {
	m := kpkeDecrypt512(dk.dkPKE, ciphertext)
	kPrime, rPrime := hG(m[:], dk.ek.h[:])
	kBar := hJ(dk.z[:], ciphertext)

	cPrime := kpkeEncrypt512(dk.ek.ekPKE, m, rPrime)

	mask := ctEqBytes(cPrime, ciphertext)
	out := make([]byte, 32)
	ctSelectBytes(out, kBar[:], kPrime[:], mask)
	return out, m[:]
}

// DecapsulateWithSeed512 re-derives the shared secret and the recovered
// plaintext message from a previously recorded KeyGen seed pair (d, z) and
// a ciphertext, rebuilding the decapsulation key from the seeds, per spec.md §6's decaps_with_seed(dk, ct) -> (K, m').
// It exists for diagnostic cross-checks against independently generated
// test vectors; ordinary decapsulation should use Decapsulate.
func DecapsulateWithSeed512(d, z [32]byte, ciphertext []byte) (sharedSecret, mPrime []byte, err error) {
	if len(ciphertext) != CiphertextSize512 {
		return nil, nil, ErrInvalidCiphertextLength
	}
	dk := newKey512(d, z)
	k, m := dk.decapsulateInternal(ciphertext)
	return k, m, nil
}

// kpkeKeyGen512 implements K-PKE.KeyGen (spec.md §4.5) for ML-KEM-512.
// Every working vector/matrix is a fixed-size array sized by the
// compile-time constant k512, per spec.md §5/§9 — no slice allocation in
// the arithmetic core itself, only for the returned encoded byte strings.
func kpkeKeyGen512(d [32]byte) (ekPKE, dkPKE []byte) {
	rho, sigma := hG(d[:], []byte{k512})

	var a [k512 * k512]nttElement
	for i := 0; i < k512; i++ {
		for j := 0; j < k512; j++ {
			a[i*k512+j] = sampleNTT(rho[:], byte(j), byte(i))
		}
	}

	n := byte(0)
	var sHat, eHat, tHat [k512]nttElement
	for i := 0; i < k512; i++ {
		sHat[i] = ntt(samplePolyCBD(eta1512, sigma[:], n))
		n++
	}
	for i := 0; i < k512; i++ {
		eHat[i] = ntt(samplePolyCBD(eta1512, sigma[:], n))
		n++
	}
	for i := 0; i < k512; i++ {
		var acc nttElement
		for j := 0; j < k512; j++ {
			acc = polyAdd(acc, baseMulNTT(a[i*k512+j], sHat[j]))
		}
		tHat[i] = polyAdd(acc, eHat[i])
	}

	ekPKE = make([]byte, ekPKESize512)
	for i := 0; i < k512; i++ {
		re := ringElement(tHat[i])
		copy(ekPKE[i*kpkeEncodingSize12:], byteEncode(12, &re))
	}
	copy(ekPKE[k512*kpkeEncodingSize12:], rho[:])

	dkPKE = make([]byte, dkPKESize512)
	for i := 0; i < k512; i++ {
		re := ringElement(sHat[i])
		copy(dkPKE[i*kpkeEncodingSize12:], byteEncode(12, &re))
	}
	return ekPKE, dkPKE
}

// kpkeEncrypt512 implements K-PKE.Encrypt (spec.md §4.5) for ML-KEM-512.
func kpkeEncrypt512(ekPKE []byte, m, r [32]byte) []byte {
	var tHat [k512]nttElement
	for i := 0; i < k512; i++ {
		tHat[i] = nttElement(byteDecode(12, ekPKE[i*kpkeEncodingSize12:(i+1)*kpkeEncodingSize12]))
	}
	rho := ekPKE[k512*kpkeEncodingSize12 : k512*kpkeEncodingSize12+32]

	var a [k512 * k512]nttElement
	for i := 0; i < k512; i++ {
		for j := 0; j < k512; j++ {
			a[i*k512+j] = sampleNTT(rho, byte(j), byte(i))
		}
	}

	n := byte(0)
	var y [k512]nttElement
	for i := 0; i < k512; i++ {
		y[i] = ntt(samplePolyCBD(eta1512, r[:], n))
		n++
	}
	var e1 [k512]ringElement
	for i := 0; i < k512; i++ {
		e1[i] = samplePolyCBD(eta2512, r[:], n)
		n++
	}
	e2 := samplePolyCBD(eta2512, r[:], n)

	var u [k512]ringElement
	for i := 0; i < k512; i++ {
		var acc nttElement
		for j := 0; j < k512; j++ {
			// Âᵀ[i][j] = Â[j][i].
			acc = polyAdd(acc, baseMulNTT(a[j*k512+i], y[j]))
		}
		u[i] = polyAdd(invNTT(acc), e1[i])
	}

	var vAcc nttElement
	for i := 0; i < k512; i++ {
		vAcc = polyAdd(vAcc, baseMulNTT(tHat[i], y[i]))
	}
	mu := decompressPoly(1, byteDecode(1, m[:]))
	v := polyAdd(polyAdd(invNTT(vAcc), e2), mu)

	ct := make([]byte, CiphertextSize512)
	offset := 0
	for i := 0; i < k512; i++ {
		cu := compressPoly(du512, u[i])
		copy(ct[offset:], byteEncode(du512, &cu))
		offset += 32 * du512
	}
	cv := compressPoly(dv512, v)
	copy(ct[offset:], byteEncode(dv512, &cv))
	return ct
}

// kpkeDecrypt512 implements K-PKE.Decrypt (spec.md §4.5) for ML-KEM-512,
// returning the recovered 32-byte message.
func kpkeDecrypt512(dkPKE, ct []byte) [32]byte {
	const uSize = 32 * du512
	var uPrime [k512]ringElement
	for i := 0; i < k512; i++ {
		packed := byteDecode(du512, ct[i*uSize:(i+1)*uSize])
		uPrime[i] = decompressPoly(du512, packed)
	}
	vPrime := decompressPoly(dv512, byteDecode(dv512, ct[k512*uSize:]))

	var sHat [k512]nttElement
	for i := 0; i < k512; i++ {
		sHat[i] = nttElement(byteDecode(12, dkPKE[i*kpkeEncodingSize12:(i+1)*kpkeEncodingSize12]))
	}

	var acc nttElement
	for i := 0; i < k512; i++ {
		acc = polyAdd(acc, baseMulNTT(sHat[i], ntt(uPrime[i])))
	}
	w := polySub(vPrime, invNTT(acc))

	compressed := compressPoly(1, w)
	var out [32]byte
	copy(out[:], byteEncode(1, &compressed))
	return out
}
