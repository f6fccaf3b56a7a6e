package mlkem

import "golang.org/x/crypto/sha3"

// kpkeEncodingSize12 is the size in bytes of ByteEncode_12 applied to a
// single polynomial.
const kpkeEncodingSize12 = 32 * 12

// hG implements G = SHA3-512, split into two 32-byte halves, per spec.md
// §4.8.
func hG(parts ...[]byte) (a, b [32]byte) {
	h := sha3.New512()
	for _, p := range parts {
		h.Write(p)
	}
	var out [64]byte
	h.Sum(out[:0])
	copy(a[:], out[:32])
	copy(b[:], out[32:])
	return a, b
}

// hH implements H = SHA3-256, per spec.md §4.8.
func hH(parts ...[]byte) [32]byte {
	h := sha3.New256()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// hJ implements J = SHAKE256 squeezed to 32 bytes, per spec.md §4.8.
func hJ(parts ...[]byte) [32]byte {
	h := sha3.NewShake256()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	h.Read(out[:])
	return out
}
