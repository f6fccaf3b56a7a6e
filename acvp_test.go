package mlkem

import (
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"encoding/json"
	"os"
	"testing"
)

// hexBytes is a helper type for JSON unmarshaling of hex strings.
type hexBytes []byte

func (h *hexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*h = b
	return nil
}

func readGzip(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func TestACVPKeyGen(t *testing.T) {
	testACVPKeyGen512(t)
	testACVPKeyGen768(t)
	testACVPKeyGen1024(t)
}

func testACVPKeyGen512(t *testing.T) {
	t.Run("ML-KEM-512", func(t *testing.T) {
		runACVPKeyGen(t, "ML-KEM-512", func(seed []byte) ([]byte, []byte, error) {
			dk, err := NewKeyFromSeed512(seed)
			if err != nil {
				return nil, nil, err
			}
			return dk.EncapsulationKey().Bytes(), dk.Bytes(), nil
		})
	})
}

func testACVPKeyGen768(t *testing.T) {
	t.Run("ML-KEM-768", func(t *testing.T) {
		runACVPKeyGen(t, "ML-KEM-768", func(seed []byte) ([]byte, []byte, error) {
			dk, err := NewKeyFromSeed768(seed)
			if err != nil {
				return nil, nil, err
			}
			return dk.EncapsulationKey().Bytes(), dk.Bytes(), nil
		})
	})
}

func testACVPKeyGen1024(t *testing.T) {
	t.Run("ML-KEM-1024", func(t *testing.T) {
		runACVPKeyGen(t, "ML-KEM-1024", func(seed []byte) ([]byte, []byte, error) {
			dk, err := NewKeyFromSeed1024(seed)
			if err != nil {
				return nil, nil, err
			}
			return dk.EncapsulationKey().Bytes(), dk.Bytes(), nil
		})
	})
}

// runACVPKeyGen drives the ACVP ML-KEM keyGen-FIPS203 vector set against
// newKey, which must accept the 64-byte d‖z seed and return (ek, dk).
func runACVPKeyGen(t *testing.T, paramSet string, newKey func(seed []byte) (ek, dk []byte, err error)) {
	promptData, err := readGzip("testdata/ML-KEM-keyGen-FIPS203/prompt.json.gz")
	if err != nil {
		t.Skipf("Could not read test data: %v", err)
	}
	resultsData, err := readGzip("testdata/ML-KEM-keyGen-FIPS203/expectedResults.json.gz")
	if err != nil {
		t.Skipf("Could not read test data: %v", err)
	}

	var prompt struct {
		TestGroups []struct {
			TgID         int    `json:"tgId"`
			ParameterSet string `json:"parameterSet"`
			Tests        []struct {
				TcID int      `json:"tcId"`
				D    hexBytes `json:"d"`
				Z    hexBytes `json:"z"`
			} `json:"tests"`
		} `json:"testGroups"`
	}
	if err := json.Unmarshal(promptData, &prompt); err != nil {
		t.Fatal(err)
	}

	var results struct {
		TestGroups []struct {
			TgID  int `json:"tgId"`
			Tests []struct {
				TcID int      `json:"tcId"`
				Ek   hexBytes `json:"ek"`
				Dk   hexBytes `json:"dk"`
			} `json:"tests"`
		} `json:"testGroups"`
	}
	if err := json.Unmarshal(resultsData, &results); err != nil {
		t.Fatal(err)
	}

	type resultKey struct{ tgID, tcID int }
	resultMap := make(map[resultKey]struct{ ek, dk hexBytes })
	for _, group := range results.TestGroups {
		for _, test := range group.Tests {
			resultMap[resultKey{group.TgID, test.TcID}] = struct{ ek, dk hexBytes }{test.Ek, test.Dk}
		}
	}

	for _, group := range prompt.TestGroups {
		if group.ParameterSet != paramSet {
			continue
		}
		for _, test := range group.Tests {
			want, ok := resultMap[resultKey{group.TgID, test.TcID}]
			if !ok {
				t.Fatalf("missing result for tgId=%d, tcId=%d", group.TgID, test.TcID)
			}

			seed := append(append([]byte{}, test.D...), test.Z...)
			ek, dk, err := newKey(seed)
			if err != nil {
				t.Fatalf("tcId=%d: key generation failed: %v", test.TcID, err)
			}
			if !bytes.Equal(ek, want.ek) {
				t.Errorf("tcId=%d: ek mismatch\ngot:  %x\nwant: %x", test.TcID, ek, want.ek)
			}
			if !bytes.Equal(dk, want.dk) {
				t.Errorf("tcId=%d: dk mismatch\ngot:  %x\nwant: %x", test.TcID, dk, want.dk)
			}
		}
	}
}

func TestACVPEncapDecap(t *testing.T) {
	testACVPEncapDecap768(t)
}

func testACVPEncapDecap768(t *testing.T) {
	t.Run("ML-KEM-768", func(t *testing.T) {
		promptData, err := readGzip("testdata/ML-KEM-encapDecap-FIPS203/prompt.json.gz")
		if err != nil {
			t.Skipf("Could not read test data: %v", err)
		}
		resultsData, err := readGzip("testdata/ML-KEM-encapDecap-FIPS203/expectedResults.json.gz")
		if err != nil {
			t.Skipf("Could not read test data: %v", err)
		}

		var prompt struct {
			TestGroups []struct {
				TgID         int      `json:"tgId"`
				ParameterSet string   `json:"parameterSet"`
				Function     string   `json:"function"` // "encapsulation" or "decapsulation"
				Ek           hexBytes `json:"ek"`
				Dk           hexBytes `json:"dk"`
				Tests        []struct {
					TcID int      `json:"tcId"`
					M    hexBytes `json:"m"`
					C    hexBytes `json:"c"`
				} `json:"tests"`
			} `json:"testGroups"`
		}
		if err := json.Unmarshal(promptData, &prompt); err != nil {
			t.Fatal(err)
		}

		var results struct {
			TestGroups []struct {
				TgID  int `json:"tgId"`
				Tests []struct {
					TcID int      `json:"tcId"`
					C    hexBytes `json:"c"`
					K    hexBytes `json:"k"`
				} `json:"tests"`
			} `json:"testGroups"`
		}
		if err := json.Unmarshal(resultsData, &results); err != nil {
			t.Fatal(err)
		}

		type resultKey struct{ tgID, tcID int }
		resultMap := make(map[resultKey]struct {
			c, k hexBytes
		})
		for _, group := range results.TestGroups {
			for _, test := range group.Tests {
				resultMap[resultKey{group.TgID, test.TcID}] = struct{ c, k hexBytes }{test.C, test.K}
			}
		}

		for _, group := range prompt.TestGroups {
			if group.ParameterSet != "ML-KEM-768" {
				continue
			}

			switch group.Function {
			case "encapsulation":
				ek, err := NewEncapsulationKey768(group.Ek)
				if err != nil {
					t.Fatalf("tgId=%d: NewEncapsulationKey768 failed: %v", group.TgID, err)
				}
				for _, test := range group.Tests {
					want, ok := resultMap[resultKey{group.TgID, test.TcID}]
					if !ok {
						t.Fatalf("missing result for tgId=%d, tcId=%d", group.TgID, test.TcID)
					}
					var m [32]byte
					copy(m[:], test.M)
					c, k := ek.EncapsulateWithSeed(m)
					if !bytes.Equal(c, want.c) {
						t.Errorf("tcId=%d: ciphertext mismatch\ngot:  %x\nwant: %x", test.TcID, c, want.c)
					}
					if !bytes.Equal(k, want.k) {
						t.Errorf("tcId=%d: shared secret mismatch\ngot:  %x\nwant: %x", test.TcID, k, want.k)
					}
				}
			case "decapsulation":
				dk, err := NewDecapsulationKey768(group.Dk)
				if err != nil {
					t.Fatalf("tgId=%d: NewDecapsulationKey768 failed: %v", group.TgID, err)
				}
				for _, test := range group.Tests {
					want, ok := resultMap[resultKey{group.TgID, test.TcID}]
					if !ok {
						t.Fatalf("missing result for tgId=%d, tcId=%d", group.TgID, test.TcID)
					}
					k, err := dk.Decapsulate(test.C)
					if err != nil {
						t.Fatalf("tcId=%d: Decapsulate failed: %v", test.TcID, err)
					}
					if !bytes.Equal(k, want.k) {
						t.Errorf("tcId=%d: shared secret mismatch\ngot:  %x\nwant: %x", test.TcID, k, want.k)
					}
				}
			}
		}
	})
}
