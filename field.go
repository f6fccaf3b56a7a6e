package mlkem

// fieldElement is an integer modulo q, always stored reduced in [0, q).
type fieldElement uint16

// ringElement is a polynomial with n coefficients in Z_q, in normal
// (non-NTT) domain.
type ringElement [n]fieldElement

// nttElement is the NTT-domain image of a ringElement: 128 pairs of
// coefficients, one pair per degree-2 factor of x²⁵⁶+1. It is a distinct
// named type from ringElement so the two domains cannot be mixed by
// accident — ntt/invNTT are the only transitions between them.
type nttElement [n]fieldElement

// Montgomery constants for R = 2^16 mod q. q=3329 is the same field as
// Kyber's, so these match the well-known Kyber reference constants
// (qInv, r2ModQ) bit for bit.
const (
	// qInv = q^-1 mod 2^16, as the int32 multiplier used by montReduce.
	qInv = 62209
	// r2ModQ = 2^32 mod q, used to bring a value into Montgomery form.
	r2ModQ = 1353
	// invN128 = 128^-1 mod q, the scaling factor applied after inverse
	// NTT (ML-KEM's NTT has 7 butterfly layers, 2^7 = 128).
	invN128 = 3303
)

// reduceOnce reduces a value in [0, 2q) to [0, q), branchless.
func reduceOnce(a uint16) fieldElement {
	x := a - q
	// If a < q, a-q wraps around (uint16), setting the high bit; add q back.
	x += (x >> 15) * q
	return fieldElement(x)
}

// fieldAdd returns (a + b) mod q.
func fieldAdd(a, b fieldElement) fieldElement {
	return reduceOnce(uint16(a) + uint16(b))
}

// fieldSub returns (a - b) mod q.
func fieldSub(a, b fieldElement) fieldElement {
	return reduceOnce(uint16(a) - uint16(b) + q)
}

// montReduce computes x * R^-1 mod q for x with |x| < q * 2^15, returning
// a signed value in (-q, q). Standard Montgomery reduction with R = 2^16.
func montReduce(x int32) int16 {
	m := int16(x * qInv)
	t := (x - int32(m)*q) >> 16
	return int16(t)
}

// toCanonical brings a signed value in (-q, q) to the canonical [0, q)
// representative, branchless.
func toCanonical(x int16) fieldElement {
	x += (x >> 15) & q
	return fieldElement(x)
}

// toMontgomery returns a*R mod q, i.e. a in Montgomery form.
func toMontgomery(a fieldElement) fieldElement {
	return toCanonical(montReduce(int32(a) * r2ModQ))
}

// montMul multiplies a value already in Montgomery form (aMont = a*R mod q)
// by a plain value b, returning the plain product a*b mod q. This is the
// primitive used by the NTT butterflies, where the zeta table is
// precomputed in Montgomery form.
func montMul(aMont, b fieldElement) fieldElement {
	return toCanonical(montReduce(int32(aMont) * int32(b)))
}

// fieldMul returns (a * b) mod q, both operands and the result in plain
// (non-Montgomery) form. Implemented via a single Montgomery reduction
// against a Montgomery-form copy of b, so the whole field module presents
// one consistent reduction strategy, per spec.md §4.1.
func fieldMul(a, b fieldElement) fieldElement {
	return montMul(toMontgomery(b), a)
}

// polyAdd adds two polynomials coefficient-wise. Works for either domain
// via the type parameter, matching the teacher's generic helper.
func polyAdd[T ~[n]fieldElement](a, b T) (c T) {
	for i := range c {
		c[i] = fieldAdd(a[i], b[i])
	}
	return c
}

// polySub subtracts two polynomials coefficient-wise.
func polySub[T ~[n]fieldElement](a, b T) (c T) {
	for i := range c {
		c[i] = fieldSub(a[i], b[i])
	}
	return c
}
