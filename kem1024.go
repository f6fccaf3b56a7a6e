package mlkem

import (
	"io"
)

// Parameters for ML-KEM-1024 (spec.md §3, NIST security category 5).
const (
	k1024    = 4
	eta11024 = 2
	eta21024 = 2
	du1024   = 11
	dv1024   = 5

	ekPKESize1024 = 384*k1024 + 32
	dkPKESize1024 = 384 * k1024

	EncapsulationKeySize1024 = ekPKESize1024
	DecapsulationKeySize1024 = dkPKESize1024 + ekPKESize1024 + 32 + 32
	CiphertextSize1024       = 32 * (du1024*k1024 + dv1024)
)

// EncapsulationKey1024 is the public key for ML-KEM-1024.
type EncapsulationKey1024 struct {
	ekPKE []byte
	h     [32]byte
}

// DecapsulationKey1024 is the private key for ML-KEM-1024.
type DecapsulationKey1024 struct {
	dkPKE []byte
	ek    EncapsulationKey1024
	z     [32]byte
}

// GenerateKey1024 generates a fresh ML-KEM-1024 key pair.
func GenerateKey1024(rand io.Reader) (*DecapsulationKey1024, error) {
	var d, z [32]byte
	if _, err := io.ReadFull(rand, d[:]); err != nil {
		return nil, ErrRngFailure
	}
	if _, err := io.ReadFull(rand, z[:]); err != nil {
		return nil, ErrRngFailure
	}
	return newKey1024(d, z), nil
}

// NewKeyFromSeed1024 deterministically derives a key pair from a 64-byte
// seed (d ‖ z).
func NewKeyFromSeed1024(seed []byte) (*DecapsulationKey1024, error) {
	if len(seed) != 64 {
		return nil, ErrInvalidPrivateKey
	}
	var d, z [32]byte
	copy(d[:], seed[:32])
	copy(z[:], seed[32:])
	return newKey1024(d, z), nil
}

func newKey1024(d, z [32]byte) *DecapsulationKey1024 {
	ekPKE, dkPKE := kpkeKeyGen1024(d)
	ek := EncapsulationKey1024{ekPKE: ekPKE, h: hH(ekPKE)}
	return &DecapsulationKey1024{dkPKE: dkPKE, ek: ek, z: z}
}

// EncapsulationKey returns the public key for this key pair.
func (dk *DecapsulationKey1024) EncapsulationKey() *EncapsulationKey1024 {
	ek := dk.ek
	return &ek
}

// Bytes returns the encoded encapsulation key.
func (ek *EncapsulationKey1024) Bytes() []byte {
	out := make([]byte, len(ek.ekPKE))
	copy(out, ek.ekPKE)
	return out
}

// Bytes returns the encoded decapsulation key.
func (dk *DecapsulationKey1024) Bytes() []byte {
	out := make([]byte, 0, DecapsulationKeySize1024)
	out = append(out, dk.dkPKE...)
	out = append(out, dk.ek.ekPKE...)
	out = append(out, dk.ek.h[:]...)
	out = append(out, dk.z[:]...)
	return out
}

// NewEncapsulationKey1024 parses an encoded encapsulation key.
func NewEncapsulationKey1024(b []byte) (*EncapsulationKey1024, error) {
	if len(b) != EncapsulationKeySize1024 {
		return nil, ErrInvalidKeyEncoding
	}
	for i := 0; i < k1024; i++ {
		chunk := b[i*kpkeEncodingSize12 : (i+1)*kpkeEncodingSize12]
		re := byteDecode(12, chunk)
		if string(byteEncode(12, &re)) != string(chunk) {
			return nil, ErrInvalidKeyEncoding
		}
	}
	ek := &EncapsulationKey1024{h: hH(b)}
	ek.ekPKE = make([]byte, len(b))
	copy(ek.ekPKE, b)
	return ek, nil
}

// NewDecapsulationKey1024 parses an encoded decapsulation key.
func NewDecapsulationKey1024(b []byte) (*DecapsulationKey1024, error) {
	if len(b) != DecapsulationKeySize1024 {
		return nil, ErrInvalidPrivateKey
	}
	dkPKE := b[:dkPKESize1024]
	ekPKE := b[dkPKESize1024 : dkPKESize1024+ekPKESize1024]
	h := b[dkPKESize1024+ekPKESize1024 : dkPKESize1024+ekPKESize1024+32]
	z := b[dkPKESize1024+ekPKESize1024+32:]

	if hH(ekPKE) != [32]byte(h) {
		return nil, ErrInvalidPrivateKey
	}

	dk := &DecapsulationKey1024{}
	dk.dkPKE = make([]byte, len(dkPKE))
	copy(dk.dkPKE, dkPKE)
	dk.ek.ekPKE = make([]byte, len(ekPKE))
	copy(dk.ek.ekPKE, ekPKE)
	copy(dk.ek.h[:], h)
	copy(dk.z[:], z)
	return dk, nil
}

// Encapsulate generates a fresh shared secret and its encapsulation under ek.
func (ek *EncapsulationKey1024) Encapsulate(rand io.Reader) (ciphertext, sharedSecret []byte, err error) {
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
// NewKeyFromSeed1024/DecapsulateWithSeed1024.
func (ek *EncapsulationKey1024) EncapsulateWithSeed(m [32]byte) (ciphertext, sharedSecret []byte) {
	return ek.encapsulateInternal(m)
}

func (ek *EncapsulationKey1024) encapsulateInternal(m [32]byte) (ciphertext, sharedSecret []byte) {
	kBytes, r := hG(m[:], ek.h[:])
	ct := kpkeEncrypt1024(ek.ekPKE, m, r)
	return ct, kBytes[:]
}

// Decapsulate recovers the shared secret encapsulated in ciphertext, falling
// back to implicit rejection rather than an error on a tampered input of the
// correct length.
func (dk *DecapsulationKey1024) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != CiphertextSize1024 {
		return nil, ErrInvalidCiphertextLength
	}
	k, _ := dk.decapsulateInternal(ciphertext)
	return k, nil
}

// decapsulateInternal implements ML-KEM.Decaps_internal (spec.md §4.6),
// returning both the shared secret K and the recovered plaintext m' — the
// latter is only meaningful for diagnostic use (DecapsulateWithSeed1024),
// since ordinary callers only ever want K.
func (dk *DecapsulationKey1024) decapsulateInternal(ciphertext []byte) (sharedSecret, mPrime []byte) {
	m := kpkeDecrypt1024(dk.dkPKE, ciphertext)
	kPrime, rPrime := hG(m[:], dk.ek.h[:])
	kBar := hJ(dk.z[:], ciphertext)

	cPrime := kpkeEncrypt1024(dk.ek.ekPKE, m, rPrime)

	mask := ctEqBytes(cPrime, ciphertext)
	out := make([]byte, 32)
	ctSelectBytes(out, kBar[:], kPrime[:], mask)
	return out, m[:]
}

// DecapsulateWithSeed1024 re-derives the shared secret and the recovered
// plaintext message from a decapsulation key derived from a recorded KeyGen
// seed pair and ciphertext, per spec.md §6's decaps_with_seed(dk, ct) ->
// (K, m'). It exists for diagnostic cross-checks against independently
// generated test vectors; ordinary decapsulation should use Decapsulate.
func DecapsulateWithSeed1024(d, z [32]byte, ciphertext []byte) (sharedSecret, mPrime []byte, err error) {
	if len(ciphertext) != CiphertextSize1024 {
		return nil, nil, ErrInvalidCiphertextLength
	}
	dk := newKey1024(d, z)
	k, m := dk.decapsulateInternal(ciphertext)
	return k, m, nil
}

// kpkeKeyGen1024 implements K-PKE.KeyGen (spec.md §4.5) for ML-KEM-1024.
// Every working vector/matrix is a fixed-size array sized by the
// compile-time constant k1024, per spec.md §5/§9 — no slice allocation in
// the arithmetic core itself, only for the returned encoded byte strings.
func kpkeKeyGen1024(d [32]byte) (ekPKE, dkPKE []byte) {
	rho, sigma := hG(d[:], []byte{k1024})

	var a [k1024 * k1024]nttElement
	for i := 0; i < k1024; i++ {
		for j := 0; j < k1024; j++ {
			a[i*k1024+j] = sampleNTT(rho[:], byte(j), byte(i))
		}
	}

	n := byte(0)
	var sHat, eHat, tHat [k1024]nttElement
	for i := 0; i < k1024; i++ {
		sHat[i] = ntt(samplePolyCBD(eta11024, sigma[:], n))
		n++
	}
	for i := 0; i < k1024; i++ {
		eHat[i] = ntt(samplePolyCBD(eta11024, sigma[:], n))
		n++
	}
	for i := 0; i < k1024; i++ {
		var acc nttElement
		for j := 0; j < k1024; j++ {
			acc = polyAdd(acc, baseMulNTT(a[i*k1024+j], sHat[j]))
		}
		tHat[i] = polyAdd(acc, eHat[i])
	}

	ekPKE = make([]byte, ekPKESize1024)
	for i := 0; i < k1024; i++ {
		re := ringElement(tHat[i])
		copy(ekPKE[i*kpkeEncodingSize12:], byteEncode(12, &re))
	}
	copy(ekPKE[k1024*kpkeEncodingSize12:], rho[:])

	dkPKE = make([]byte, dkPKESize1024)
	for i := 0; i < k1024; i++ {
		re := ringElement(sHat[i])
		copy(dkPKE[i*kpkeEncodingSize12:], byteEncode(12, &re))
	}
	return ekPKE, dkPKE
}

// kpkeEncrypt1024 implements K-PKE.Encrypt (spec.md §4.5) for ML-KEM-1024.
func kpkeEncrypt1024(ekPKE []byte, m, r [32]byte) []byte {
	var tHat [k1024]nttElement
	for i := 0; i < k1024; i++ {
		tHat[i] = nttElement(byteDecode(12, ekPKE[i*kpkeEncodingSize12:(i+1)*kpkeEncodingSize12]))
	}
	rho := ekPKE[k1024*kpkeEncodingSize12 : k1024*kpkeEncodingSize12+32]

	var a [k1024 * k1024]nttElement
	for i := 0; i < k1024; i++ {
		for j := 0; j < k1024; j++ {
			a[i*k1024+j] = sampleNTT(rho, byte(j), byte(i))
		}
	}

	n := byte(0)
	var y [k1024]nttElement
	for i := 0; i < k1024; i++ {
		y[i] = ntt(samplePolyCBD(eta11024, r[:], n))
		n++
	}
	var e1 [k1024]ringElement
	for i := 0; i < k1024; i++ {
		e1[i] = samplePolyCBD(eta21024, r[:], n)
		n++
	}
	e2 := samplePolyCBD(eta21024, r[:], n)

	var u [k1024]ringElement
	for i := 0; i < k1024; i++ {
		var acc nttElement
		for j := 0; j < k1024; j++ {
			// Âᵀ[i][j] = Â[j][i].
			acc = polyAdd(acc, baseMulNTT(a[j*k1024+i], y[j]))
		}
		u[i] = polyAdd(invNTT(acc), e1[i])
	}

	var vAcc nttElement
	for i := 0; i < k1024; i++ {
		vAcc = polyAdd(vAcc, baseMulNTT(tHat[i], y[i]))
	}
	mu := decompressPoly(1, byteDecode(1, m[:]))
	v := polyAdd(polyAdd(invNTT(vAcc), e2), mu)

	ct := make([]byte, CiphertextSize1024)
	offset := 0
	for i := 0; i < k1024; i++ {
		cu := compressPoly(du1024, u[i])
		copy(ct[offset:], byteEncode(du1024, &cu))
		offset += 32 * du1024
	}
	cv := compressPoly(dv1024, v)
	copy(ct[offset:], byteEncode(dv1024, &cv))
	return ct
}

// kpkeDecrypt1024 implements K-PKE.Decrypt (spec.md §4.5) for ML-KEM-1024,
// returning the recovered 32-byte message.
func kpkeDecrypt1024(dkPKE, ct []byte) [32]byte {
	const uSize = 32 * du1024
	var uPrime [k1024]ringElement
	for i := 0; i < k1024; i++ {
		packed := byteDecode(du1024, ct[i*uSize:(i+1)*uSize])
		uPrime[i] = decompressPoly(du1024, packed)
	}
	vPrime := decompressPoly(dv1024, byteDecode(dv1024, ct[k1024*uSize:]))

	var sHat [k1024]nttElement
	for i := 0; i < k1024; i++ {
		sHat[i] = nttElement(byteDecode(12, dkPKE[i*kpkeEncodingSize12:(i+1)*kpkeEncodingSize12]))
	}

	var acc nttElement
	for i := 0; i < k1024; i++ {
		acc = polyAdd(acc, baseMulNTT(sHat[i], ntt(uPrime[i])))
	}
	w := polySub(vPrime, invNTT(acc))

	compressed := compressPoly(1, w)
	var out [32]byte
	copy(out[:], byteEncode(1, &compressed))
	return out
}
