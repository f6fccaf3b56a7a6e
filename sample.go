package mlkem

import (
	"golang.org/x/crypto/sha3"
)

// sampleNTT implements SampleNTT (FIPS 203 Algorithm 7): it rejection-
// samples a uniform NTT-domain polynomial from SHAKE128(ρ ‖ b0 ‖ b1), per
// spec.md §4.3/§4.8. Per spec.md §4.5, matrix generation calls this as
// SampleNTT(ρ, j, i) for entry Â[i,j] — the byte order is the caller's
// responsibility, this function writes its two index bytes in the exact
// order given. Grounded on mldsa/sample.go's sampleNTTPoly (same "XOF,
// read a rate's worth of bytes, extract lanes 3 bytes at a time, reject
// ≥ q" shape), generalized from ML-DSA's single 23-bit lane per 3 bytes
// to ML-KEM's two 12-bit lanes per 3 bytes (FIPS 203 uses a narrower
// field).
func sampleNTT(rho []byte, b0, b1 byte) nttElement {
	h := sha3.NewShake128()
	h.Write(rho)
	h.Write([]byte{b0, b1})

	var buf [168]byte // SHAKE128 rate
	var a nttElement
	cnt := 0

	for {
		h.Read(buf[:])
		for p := 0; p+3 <= len(buf) && cnt < n; p += 3 {
			d1 := uint16(buf[p]) | uint16(buf[p+1]&0x0f)<<8
			d2 := uint16(buf[p+1]>>4) | uint16(buf[p+2])<<4
			if d1 < q {
				a[cnt] = fieldElement(d1)
				cnt++
			}
			if cnt < n && d2 < q {
				a[cnt] = fieldElement(d2)
				cnt++
			}
		}
		if cnt >= n {
			return a
		}
	}
}

// samplePolyCBD implements SamplePolyCBD_η (FIPS 203 Algorithm 8): it
// draws 64η bytes from PRF_η(seed, nonce) = SHAKE256(seed ‖ nonce) and
// derives a centered-binomial polynomial with coefficients in {−η,…,η}
// reduced mod q. Bit-level rather than nibble-packed (unlike
// mldsa/sample.go's sampleBoundedPoly) because η=3 does not divide a byte
// evenly the way ML-DSA's η∈{2,4} do; see DESIGN.md.
func samplePolyCBD(eta int, seed []byte, nonce byte) ringElement {
	h := sha3.NewShake256()
	h.Write(seed)
	h.Write([]byte{nonce})

	// eta is always 2 or 3 (spec.md §3); a fixed-size array sized for the
	// largest case avoids a heap allocation per sample, per spec.md §5/§9.
	var storage [64 * 3]byte
	buf := storage[:64*eta]
	h.Read(buf)

	bit := func(idx int) uint16 {
		return uint16(buf[idx/8]>>(idx%8)) & 1
	}

	var f ringElement
	pos := 0
	for i := 0; i < n; i++ {
		var x, y uint16
		for k := 0; k < eta; k++ {
			x += bit(pos)
			pos++
		}
		for k := 0; k < eta; k++ {
			y += bit(pos)
			pos++
		}
		f[i] = fieldSub(fieldElement(x), fieldElement(y))
	}
	return f
}
