package mlkem

// zetas contains the precomputed NTT twiddle factors in Montgomery form:
// zetas[k] = ζ^brv7(k) * R mod q, for ζ=17, R=2^16, brv7 the 7-bit
// bitreversal. Cross-checked bit-for-bit against CIRCL's published Kyber
// Zetas table (same field, same ζ, same R) — see DESIGN.md.
var zetas = [128]fieldElement{
	2285, 2571, 2970, 1812, 1493, 1422, 287, 202, 3158, 622, 1577, 182,
	962, 2127, 1855, 1468, 573, 2004, 264, 383, 2500, 1458, 1727, 3199,
	2648, 1017, 732, 608, 1787, 411, 3124, 1758, 1223, 652, 2777, 1015,
	2036, 1491, 3047, 1785, 516, 3321, 3009, 2663, 1711, 2167, 126, 1469,
	2476, 3239, 3058, 830, 107, 1908, 3082, 2378, 2931, 961, 1821, 2604,
	448, 2264, 677, 2054, 2226, 430, 555, 843, 2078, 871, 1550, 105,
	422, 587, 177, 3094, 3038, 2869, 1574, 1653, 3083, 778, 1159, 3182,
	2552, 1483, 2727, 1119, 1739, 644, 2457, 349, 418, 329, 3173, 3254,
	817, 1097, 603, 610, 1322, 2044, 1864, 384, 2114, 3193, 1218, 1994,
	2455, 220, 2142, 1670, 2144, 1799, 2051, 794, 1819, 2475, 2459, 478,
	3221, 3021, 996, 991, 958, 1869, 1522, 1628,
}

// gammas contains ζ^(2·brv7(i)+1) mod q for i=0..127, the per-pair
// multiplier used by baseMulNTT (FIPS 203 Algorithm 12). Stored in plain
// (non-Montgomery) form; fieldMul converts internally.
var gammas = [128]fieldElement{
	17, 3312, 2761, 568, 583, 2746, 2649, 680, 1637, 1692, 723, 2606,
	2288, 1041, 1100, 2229, 1409, 1920, 2662, 667, 3281, 48, 233, 3096,
	756, 2573, 2156, 1173, 3015, 314, 3050, 279, 1703, 1626, 1651, 1678,
	2789, 540, 1789, 1540, 1847, 1482, 952, 2377, 1461, 1868, 2687, 642,
	939, 2390, 2308, 1021, 2437, 892, 2388, 941, 733, 2596, 2337, 992,
	268, 3061, 641, 2688, 1584, 1745, 2298, 1031, 2037, 1292, 3220, 109,
	375, 2954, 2549, 780, 2090, 1239, 1645, 1684, 1063, 2266, 319, 3010,
	2773, 556, 757, 2572, 2099, 1230, 561, 2768, 2466, 863, 2594, 735,
	2804, 525, 1092, 2237, 403, 2926, 1026, 2303, 1143, 2186, 2150, 1179,
	2775, 554, 886, 2443, 1722, 1607, 1212, 2117, 1874, 1455, 1029, 2300,
	2110, 1219, 2935, 394, 885, 2444, 2154, 1175,
}

// ntt performs the length-256 Number Theoretic Transform on a polynomial.
// The input is in normal domain, the output is in NTT domain: 128 pairs
// of coefficients, one pair per surviving degree-2 factor of x²⁵⁶+1 (ℤ_q
// has a primitive 256th root of unity but no primitive 512th one, so
// x²⁵⁶+1 factors only down to the 128 quadratics x² − ζ^(2·brv7(i)+1)).
// Implements FIPS 203 Algorithm 9.
func ntt(f ringElement) nttElement {
	k := 1
	for length := 128; length >= 2; length /= 2 {
		for start := 0; start < n; start += 2 * length {
			z := zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := montMul(z, f[j+length])
				f[j+length] = fieldSub(f[j], t)
				f[j] = fieldAdd(f[j], t)
			}
		}
	}
	return nttElement(f)
}

// invNTT performs the inverse NTT, mapping an NTT-domain polynomial back
// to normal domain. Implements FIPS 203 Algorithm 10.
func invNTT(f nttElement) ringElement {
	k := 127
	for length := 2; length <= 128; length *= 2 {
		for start := 0; start < n; start += 2 * length {
			z := zetas[k]
			k--
			for j := start; j < start+length; j++ {
				t := f[j]
				f[j] = fieldAdd(t, f[j+length])
				f[j+length] = montMul(z, fieldSub(f[j+length], t))
			}
		}
	}
	for i := range f {
		f[i] = fieldMul(f[i], invN128)
	}
	return ringElement(f)
}

// baseMulNTT multiplies two NTT-domain polynomials. Unlike a fully split
// NTT, ℤ_q[x]/(x²⁵⁶+1) only splits into 128 degree-2 quotients, so each
// pair of coefficients is the result of a degree-1×degree-1 product
// modulo (x² − γ) rather than a single scalar product. Implements FIPS
// 203 Algorithm 12 (BaseCaseMultiply) applied over all 128 pairs
// (Algorithm 11, MultiplyNTTs).
func baseMulNTT(a, b nttElement) nttElement {
	var c nttElement
	for i := 0; i < 128; i++ {
		a0, a1 := a[2*i], a[2*i+1]
		b0, b1 := b[2*i], b[2*i+1]
		g := gammas[i]
		c[2*i] = fieldAdd(fieldMul(a0, b0), fieldMul(fieldMul(a1, b1), g))
		c[2*i+1] = fieldAdd(fieldMul(a0, b1), fieldMul(a1, b0))
	}
	return c
}
