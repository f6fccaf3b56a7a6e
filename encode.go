package mlkem

// byteEncode implements ByteEncode_d (FIPS 203 Algorithm 4): it packs 256
// d-bit values into 32d bytes, little-endian bit order within and across
// bytes (bit i of the logical bit string lands in byte i/8, bit i%8).
//
// Grounded on mldsa/encode.go's pack* family (same little-endian
// bit-accumulator idea), but unified into one function parameterized on d
// instead of one hand-unrolled function per width: ML-DSA only needs a
// handful of fixed widths (3,4,10,13,18,20) each written as a dedicated
// 64-bit-accumulator loop, where ML-KEM needs seven (1,4,5,6,10,11,12).
// A single bit-at-a-time loop covers all of them without near-duplicating
// the teacher's unrolled shape seven times over; see DESIGN.md.
func byteEncode(d int, f *ringElement) []byte {
	out := make([]byte, 32*d)
	bitIdx := 0
	for i := 0; i < n; i++ {
		a := uint32(f[i])
		for j := 0; j < d; j++ {
			out[bitIdx/8] |= byte(a&1) << (bitIdx % 8)
			a >>= 1
			bitIdx++
		}
	}
	return out
}

// byteDecode implements ByteDecode_d (FIPS 203 Algorithm 5): it unpacks
// 32d bytes into 256 d-bit values. For d=12 the raw 12-bit lane can exceed
// q-1, so the result is additionally reduced mod q on read (spec.md §4.4);
// for d≤11, 2^d-1 < q always and no reduction is needed.
func byteDecode(d int, b []byte) ringElement {
	var f ringElement
	bitIdx := 0
	for i := 0; i < n; i++ {
		var a uint32
		for j := 0; j < d; j++ {
			bit := uint32(b[bitIdx/8]>>(bitIdx%8)) & 1
			a |= bit << j
			bitIdx++
		}
		if d == 12 {
			a %= q
		}
		f[i] = fieldElement(a)
	}
	return f
}
