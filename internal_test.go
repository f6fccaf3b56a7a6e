package mlkem

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestFieldArithmetic(t *testing.T) {
	for a := fieldElement(0); a < q; a += 97 {
		for b := fieldElement(0); b < q; b += 131 {
			got := fieldAdd(a, b)
			want := (uint16(a) + uint16(b)) % q
			if uint16(got) != want {
				t.Fatalf("fieldAdd(%d,%d) = %d, want %d", a, b, got, want)
			}

			got = fieldSub(a, b)
			want = (uint16(a) + q - uint16(b)) % q
			if uint16(got) != want {
				t.Fatalf("fieldSub(%d,%d) = %d, want %d", a, b, got, want)
			}

			got = fieldMul(a, b)
			want = uint16((uint32(a) * uint32(b)) % q)
			if uint16(got) != want {
				t.Fatalf("fieldMul(%d,%d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestNTTRoundTrip(t *testing.T) {
	var f ringElement
	for i := range f {
		f[i] = fieldElement((i*37 + 11) % q)
	}
	got := invNTT(ntt(f))
	if got != f {
		t.Fatalf("invNTT(ntt(f)) != f\ngot:  %v\nwant: %v", got, f)
	}
}

func TestNTTIsLinear(t *testing.T) {
	var a, b ringElement
	for i := range a {
		a[i] = fieldElement((i * 13) % q)
		b[i] = fieldElement((i * 23) % q)
	}
	sumThenNTT := ntt(polyAdd(a, b))
	nttThenSum := polyAdd(ntt(a), ntt(b))
	if sumThenNTT != nttThenSum {
		t.Fatal("NTT does not commute with polynomial addition")
	}
}

func TestByteEncodeDecodeRoundTrip(t *testing.T) {
	for _, d := range []int{1, 4, 5, 6, 10, 11, 12} {
		var f ringElement
		max := uint32(1)<<d - 1
		if d == 12 {
			max = q - 1
		}
		for i := range f {
			f[i] = fieldElement(uint32(i) % (max + 1))
		}
		encoded := byteEncode(d, &f)
		if len(encoded) != 32*d {
			t.Fatalf("d=%d: encoded length = %d, want %d", d, len(encoded), 32*d)
		}
		decoded := byteDecode(d, encoded)
		if decoded != f {
			t.Fatalf("d=%d: byteDecode(byteEncode(f)) != f", d)
		}
	}
}

func TestCompressDecompressBounds(t *testing.T) {
	for _, d := range []int{1, 4, 5, 10, 11} {
		for x := fieldElement(0); x < q; x += 17 {
			c := compress(d, x)
			if c >= 1<<d {
				t.Fatalf("compress(%d, %d) = %d, out of range [0, 2^%d)", d, x, c, d)
			}
			y := decompress(d, c)
			if uint16(y) >= q {
				t.Fatalf("decompress(%d, %d) = %d, out of range [0, q)", d, c, y)
			}
		}
	}
}

func TestSamplePolyCBDRange(t *testing.T) {
	var seed [32]byte
	for _, eta := range []int{2, 3} {
		f := samplePolyCBD(eta, seed[:], 0)
		for _, c := range f {
			// Centered-binomial coefficients land in {-eta,...,eta} mod q,
			// i.e. {0,...,eta} ∪ {q-eta,...,q-1}.
			v := uint16(c)
			if v > uint16(eta) && v < q-uint16(eta) {
				t.Fatalf("eta=%d: coefficient %d outside centered-binomial range", eta, v)
			}
		}
	}
}

func TestSampleNTTProducesValidCoefficients(t *testing.T) {
	var rho [32]byte
	if _, err := rand.Read(rho[:]); err != nil {
		t.Fatalf("rand.Read failed: %v", err)
	}
	f := sampleNTT(rho[:], 0, 1)
	for _, c := range f {
		if uint16(c) >= q {
			t.Fatalf("sampleNTT produced coefficient %d >= q", c)
		}
	}
}

func TestKPKERoundTrip(t *testing.T) {
	var d, m, r [32]byte
	if _, err := rand.Read(d[:]); err != nil {
		t.Fatalf("rand.Read failed: %v", err)
	}
	if _, err := rand.Read(m[:]); err != nil {
		t.Fatalf("rand.Read failed: %v", err)
	}
	if _, err := rand.Read(r[:]); err != nil {
		t.Fatalf("rand.Read failed: %v", err)
	}

	t.Run("512", func(t *testing.T) {
		ekPKE, dkPKE := kpkeKeyGen512(d)
		ct := kpkeEncrypt512(ekPKE, m, r)
		got := kpkeDecrypt512(dkPKE, ct)
		if !bytes.Equal(got[:], m[:]) {
			t.Fatal("kpkeDecrypt512 did not recover the original message")
		}
	})
	t.Run("768", func(t *testing.T) {
		ekPKE, dkPKE := kpkeKeyGen768(d)
		ct := kpkeEncrypt768(ekPKE, m, r)
		got := kpkeDecrypt768(dkPKE, ct)
		if !bytes.Equal(got[:], m[:]) {
			t.Fatal("kpkeDecrypt768 did not recover the original message")
		}
	})
	t.Run("1024", func(t *testing.T) {
		ekPKE, dkPKE := kpkeKeyGen1024(d)
		ct := kpkeEncrypt1024(ekPKE, m, r)
		got := kpkeDecrypt1024(dkPKE, ct)
		if !bytes.Equal(got[:], m[:]) {
			t.Fatal("kpkeDecrypt1024 did not recover the original message")
		}
	})
}

func TestCtSelectAndEq(t *testing.T) {
	a := []byte{1, 2, 3, 4}
	b := []byte{5, 6, 7, 8}

	if ctEqBytes(a, b) != 0x00 {
		t.Fatal("ctEqBytes reported equal for distinct slices")
	}
	if ctEqBytes(a, a) != 0xFF {
		t.Fatal("ctEqBytes reported unequal for identical slices")
	}

	out := make([]byte, len(a))
	ctSelectBytes(out, a, b, 0x00)
	if !bytes.Equal(out, a) {
		t.Fatal("ctSelectBytes with mask 0x00 did not select a")
	}
	ctSelectBytes(out, a, b, 0xFF)
	if !bytes.Equal(out, b) {
		t.Fatal("ctSelectBytes with mask 0xFF did not select b")
	}
}
