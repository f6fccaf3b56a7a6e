package mlkem

import (
	"io"
)

// Parameters for ML-KEM-768 (spec.md §3, NIST security category 3, the
// recommended default parameter set).
const (
	k768    = 3
	eta1768 = 2
	eta2768 = 2
	du768   = 10
	dv768   = 4

	ekPKESize768 = 384*k768 + 32
	dkPKESize768 = 384 * k768

	EncapsulationKeySize768 = ekPKESize768
	DecapsulationKeySize768 = dkPKESize768 + ekPKESize768 + 32 + 32
	CiphertextSize768       = 32 * (du768*k768 + dv768)
)

// EncapsulationKey768 is the public key for ML-KEM-768.
type EncapsulationKey768 struct {
	ekPKE []byte
	h     [32]byte
}

// DecapsulationKey768 is the private key for ML-KEM-768.
type DecapsulationKey768 struct {
	dkPKE []byte
	ek    EncapsulationKey768
	z     [32]byte
}

// GenerateKey768 generates a fresh ML-KEM-768 key pair, drawing the two
// KeyGen seeds from rand.
func GenerateKey768(rand io.Reader) (*DecapsulationKey768, error) {
	var d, z [32]byte
	if _, err := io.ReadFull(rand, d[:]); err != nil {
		return nil, ErrRngFailure
	}
	if _, err := io.ReadFull(rand, z[:]); err != nil {
		return nil, ErrRngFailure
	}
	return newKey768(d, z), nil
}

// NewKeyFromSeed768 deterministically derives a key pair from a 64-byte
// seed (d ‖ z).
func NewKeyFromSeed768(seed []byte) (*DecapsulationKey768, error) {
	if len(seed) != 64 {
		return nil, ErrInvalidPrivateKey
	}
	var d, z [32]byte
	copy(d[:], seed[:32])
	copy(z[:], seed[32:])
	return newKey768(d, z), nil
}

func newKey768(d, z [32]byte) *DecapsulationKey768 {
	ekPKE, dkPKE := kpkeKeyGen768(d)
	ek := EncapsulationKey768{ekPKE: ekPKE, h: hH(ekPKE)}
	return &DecapsulationKey768{dkPKE: dkPKE, ek: ek, z: z}
}

// EncapsulationKey returns the public key for this key pair.
func (dk *DecapsulationKey768) EncapsulationKey() *EncapsulationKey768 {
	ek := dk.ek
	return &ek
}

// Bytes returns the encoded encapsulation key.
func (ek *EncapsulationKey768) Bytes() []byte {
	out := make([]byte, len(ek.ekPKE))
	copy(out, ek.ekPKE)
	return out
}

// Bytes returns the encoded decapsulation key.
func (dk *DecapsulationKey768) Bytes() []byte {
	out := make([]byte, 0, DecapsulationKeySize768)
	out = append(out, dk.dkPKE...)
	out = append(out, dk.ek.ekPKE...)
	out = append(out, dk.ek.h[:]...)
	out = append(out, dk.z[:]...)
	return out
}

// NewEncapsulationKey768 parses an encoded encapsulation key.
func NewEncapsulationKey768(b []byte) (*EncapsulationKey768, error) {
	if len(b) != EncapsulationKeySize768 {
		return nil, ErrInvalidKeyEncoding
	}
	for i := 0; i < k768; i++ {
		chunk := b[i*kpkeEncodingSize12 : (i+1)*kpkeEncodingSize12]
		re := byteDecode(12, chunk)
		if string(byteEncode(12, &re)) != string(chunk) {
			return nil, ErrInvalidKeyEncoding
		}
	}
	ek := &EncapsulationKey768{h: hH(b)}
	ek.ekPKE = make([]byte, len(b))
	copy(ek.ekPKE, b)
	return ek, nil
}

// NewDecapsulationKey768 parses an encoded decapsulation key.
func NewDecapsulationKey768(b []byte) (*DecapsulationKey768, error) {
	if len(b) != DecapsulationKeySize768 {
		return nil, ErrInvalidPrivateKey
	}
	dkPKE := b[:dkPKESize768]
	ekPKE := b[dkPKESize768 : dkPKESize768+ekPKESize768]
	h := b[dkPKESize768+ekPKESize768 : dkPKESize768+ekPKESize768+32]
	z := b[dkPKESize768+ekPKESize768+32:]

	if hH(ekPKE) != [32]byte(h) {
		return nil, ErrInvalidPrivateKey
	}

	dk := &DecapsulationKey768{}
	dk.dkPKE = make([]byte, len(dkPKE))
	copy(dk.dkPKE, dkPKE)
	dk.ek.ekPKE = make([]byte, len(ekPKE))
	copy(dk.ek.ekPKE, ekPKE)
	copy(dk.ek.h[:], h)
	copy(dk.z[:], z)
	return dk, nil
}

// Encapsulate generates a fresh shared secret and its encapsulation under ek.
func (ek *EncapsulationKey768) Encapsulate(rand io.Reader) (ciphertext, sharedSecret []byte, err error) {
	var m [32]byte
	if _, err := io.ReadFull(rand, m[:]); err != nil {
		return nil, nil, ErrRngFailure
	}
	ct, ss := ek.encapsulateInternal(m)
	return ct, ss, nil
}

// EncapsulateWithSeed deterministically encapsulates against ek using
// the supplied 32-byte message seed m instead of fresh randomness, per
// spec.md §6's encaps_from_seed(ek, m) -> (ct, K).
func (ek *EncapsulationKey768) EncapsulateWithSeed(m [32]byte) (ciphertext, sharedSecret []byte) {
	return ek.encapsulateInternal(m)
}

func (ek *EncapsulationKey768) encapsulateInternal(m [32]byte) (ciphertext, sharedSecret []byte) {
	kBytes, r := hG(m[:], ek.h[:])
	ct := kpkeEncrypt768(ek.ekPKE, m, r)
	return ct, kBytes[:]
}

// Decapsulate recovers the shared secret encapsulated in ciphertext. As with
// ML-KEM-512, a tampered ciphertext of the correct length does not produce
// an error; implicit rejection substitutes a pseudorandom secret instead.
func (dk *DecapsulationKey768) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != CiphertextSize768 {
		return nil, ErrInvalidCiphertextLength
	}
	k, _ := dk.decapsulateInternal(ciphertext)
	return k, nil
}

// decapsulateInternal implements ML-KEM.Decaps_internal (spec.md §4.6),
// returning both the shared secret K and the recovered plaintext m'.
func (dk *DecapsulationKey768) decapsulateInternal(ciphertext []byte) (sharedSecret, mPrime []byte) {
	m := kpkeDecrypt768(dk.dkPKE, ciphertext)
	kPrime, rPrime := hG(m[:], dk.ek.h[:])
	kBar := hJ(dk.z[:], ciphertext)

	cPrime := kpkeEncrypt768(dk.ek.ekPKE, m, rPrime)

	mask := ctEqBytes(cPrime, ciphertext)
	out := make([]byte, 32)
	ctSelectBytes(out, kBar[:], kPrime[:], mask)
	return out, m[:]
}

// DecapsulateWithSeed768 re-derives the shared secret and the recovered
// plaintext message from a recorded KeyGen seed pair instead of a parsed
// decapsulation key, per spec.md §6's decaps_with_seed(dk, ct) -> (K, m');
// a diagnostic path for cross-checking against independently generated
// test vectors.
func DecapsulateWithSeed768(d, z [32]byte, ciphertext []byte) (sharedSecret, mPrime []byte, err error) {
	if len(ciphertext) != CiphertextSize768 {
		return nil, nil, ErrInvalidCiphertextLength
	}
	dk := newKey768(d, z)
	k, m := dk.decapsulateInternal(ciphertext)
	return k, m, nil
}

// kpkeKeyGen768 implements K-PKE.KeyGen (spec.md §4.5) for ML-KEM-768.
// Every working vector/matrix is a fixed-size array sized by the
// compile-time constant k768, per spec.md §5/§9.
func kpkeKeyGen768(d [32]byte) (ekPKE, dkPKE []byte) {
	rho, sigma := hG(d[:], []byte{k768})

	var a [k768 * k768]nttElement
	for i := 0; i < k768; i++ {
		for j := 0; j < k768; j++ {
			a[i*k768+j] = sampleNTT(rho[:], byte(j), byte(i))
		}
	}

	n := byte(0)
	var sHat, eHat, tHat [k768]nttElement
	for i := 0; i < k768; i++ {
		sHat[i] = ntt(samplePolyCBD(eta1768, sigma[:], n))
		n++
	}
	for i := 0; i < k768; i++ {
		eHat[i] = ntt(samplePolyCBD(eta1768, sigma[:], n))
		n++
	}
	for i := 0; i < k768; i++ {
		var acc nttElement
		for j := 0; j < k768; j++ {
			acc = polyAdd(acc, baseMulNTT(a[i*k768+j], sHat[j]))
		}
		tHat[i] = polyAdd(acc, eHat[i])
	}

	ekPKE = make([]byte, ekPKESize768)
	for i := 0; i < k768; i++ {
		re := ringElement(tHat[i])
		copy(ekPKE[i*kpkeEncodingSize12:], byteEncode(12, &re))
	}
	copy(ekPKE[k768*kpkeEncodingSize12:], rho[:])

	dkPKE = make([]byte, dkPKESize768)
	for i := 0; i < k768; i++ {
		re := ringElement(sHat[i])
		copy(dkPKE[i*kpkeEncodingSize12:], byteEncode(12, &re))
	}
	return ekPKE, dkPKE
}

// kpkeEncrypt768 implements K-PKE.Encrypt (spec.md §4.5) for ML-KEM-768.
func kpkeEncrypt768(ekPKE []byte, m, r [32]byte) []byte {
	var tHat [k768]nttElement
	for i := 0; i < k768; i++ {
		tHat[i] = nttElement(byteDecode(12, ekPKE[i*kpkeEncodingSize12:(i+1)*kpkeEncodingSize12]))
	}
	rho := ekPKE[k768*kpkeEncodingSize12 : k768*kpkeEncodingSize12+32]

	var a [k768 * k768]nttElement
	for i := 0; i < k768; i++ {
		for j := 0; j < k768; j++ {
			a[i*k768+j] = sampleNTT(rho, byte(j), byte(i))
		}
	}

	n := byte(0)
	var y [k768]nttElement
	for i := 0; i < k768; i++ {
		y[i] = ntt(samplePolyCBD(eta1768, r[:], n))
		n++
	}
	var e1 [k768]ringElement
	for i := 0; i < k768; i++ {
		e1[i] = samplePolyCBD(eta2768, r[:], n)
		n++
	}
	e2 := samplePolyCBD(eta2768, r[:], n)

	var u [k768]ringElement
	for i := 0; i < k768; i++ {
		var acc nttElement
		for j := 0; j < k768; j++ {
			// Âᵀ[i][j] = Â[j][i].
			acc = polyAdd(acc, baseMulNTT(a[j*k768+i], y[j]))
		}
		u[i] = polyAdd(invNTT(acc), e1[i])
	}

	var vAcc nttElement
	for i := 0; i < k768; i++ {
		vAcc = polyAdd(vAcc, baseMulNTT(tHat[i], y[i]))
	}
	mu := decompressPoly(1, byteDecode(1, m[:]))
	v := polyAdd(polyAdd(invNTT(vAcc), e2), mu)

	ct := make([]byte, CiphertextSize768)
	offset := 0
	for i := 0; i < k768; i++ {
		cu := compressPoly(du768, u[i])
		copy(ct[offset:], byteEncode(du768, &cu))
		offset += 32 * du768
	}
	cv := compressPoly(dv768, v)
	copy(ct[offset:], byteEncode(dv768, &cv))
	return ct
}

// kpkeDecrypt768 implements K-PKE.Decrypt (spec.md §4.5) for ML-KEM-768.
func kpkeDecrypt768(dkPKE, ct []byte) [32]byte {
	const uSize = 32 * du768
	var uPrime [k768]ringElement
	for i := 0; i < k768; i++ {
		packed := byteDecode(du768, ct[i*uSize:(i+1)*uSize])
		uPrime[i] = decompressPoly(du768, packed)
	}
	vPrime := decompressPoly(dv768, byteDecode(dv768, ct[k768*uSize:]))

	var sHat [k768]nttElement
	for i := 0; i < k768; i++ {
		sHat[i] = nttElement(byteDecode(12, dkPKE[i*kpkeEncodingSize12:(i+1)*kpkeEncodingSize12]))
	}

	var acc nttElement
	for i := 0; i < k768; i++ {
		acc = polyAdd(acc, baseMulNTT(sHat[i], ntt(uPrime[i])))
	}
	w := polySub(vPrime, invNTT(acc))

	compressed := compressPoly(1, w)
	var out [32]byte
	copy(out[:], byteEncode(1, &compressed))
	return out
}
