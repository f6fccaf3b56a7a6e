// Command mlkem-demo exercises a full ML-KEM key-generation,
// encapsulation, and decapsulation cycle for one parameter set and
// prints the resulting sizes and shared secret.
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/KarpelesLab/mlkem"
)

func main() {
	paramSet := flag.String("param-set", "768", "ML-KEM parameter set: 512, 768, or 1024")
	flag.Parse()

	ek, ct, ss1, ss2, err := run(*paramSet)
	if err != nil {
		log.Fatalf("mlkem-demo: %v", err)
	}

	fmt.Printf("parameter set:          ML-KEM-%s\n", *paramSet)
	fmt.Printf("encapsulation key size: %d bytes\n", len(ek))
	fmt.Printf("ciphertext size:        %d bytes\n", len(ct))
	fmt.Printf("shared secret:          %s\n", hex.EncodeToString(ss1))

	if !bytes.Equal(ss1, ss2) {
		log.Fatal("mlkem-demo: encapsulated and decapsulated secrets do not match")
	}
	fmt.Println("decapsulation recovered the same shared secret")
}

func run(paramSet string) (ek, ct, ssEncap, ssDecap []byte, err error) {
	switch paramSet {
	case "512":
		dk, err := mlkem.GenerateKey512(rand.Reader)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		ek := dk.EncapsulationKey()
		ct, ss1, err := ek.Encapsulate(rand.Reader)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		ss2, err := dk.Decapsulate(ct)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return ek.Bytes(), ct, ss1, ss2, nil
	case "768":
		dk, err := mlkem.GenerateKey768(rand.Reader)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		ek := dk.EncapsulationKey()
		ct, ss1, err := ek.Encapsulate(rand.Reader)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		ss2, err := dk.Decapsulate(ct)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return ek.Bytes(), ct, ss1, ss2, nil
	case "1024":
		dk, err := mlkem.GenerateKey1024(rand.Reader)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		ek := dk.EncapsulationKey()
		ct, ss1, err := ek.Encapsulate(rand.Reader)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		ss2, err := dk.Decapsulate(ct)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return ek.Bytes(), ct, ss1, ss2, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown parameter set %q", paramSet)
	}
}
