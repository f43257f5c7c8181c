package rsacrypt

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// pkcs1v15Overhead is the number of bytes PKCS#1 v1.5 encryption padding
// reserves in every block.
const pkcs1v15Overhead = 11

// derOverheadRatio converts a PKIX DER length in bytes to an approximate
// modulus size. It undershoots real keys (2048 bits estimates to 1568),
// which keeps every chunk within the primitive's capacity.
const derOverheadRatio = 1.5

// MaxPlaintextBytes returns the largest plaintext one PKCS#1 v1.5
// encryption call accepts for a modulus of keySizeBits.
func MaxPlaintextBytes(keySizeBits int) int {
	return keySizeBits/8 - pkcs1v15Overhead
}

// KeySizer reports the modulus size used to compute the chunk limit.
type KeySizer interface {
	KeySizeBits(publicKeyPEM string) (int, error)
}

// EstimatingSizer derives the size from the PEM body length without parsing
// the key. See EstimateKeySizeBits.
type EstimatingSizer struct{}

func (EstimatingSizer) KeySizeBits(publicKeyPEM string) (int, error) {
	bits := EstimateKeySizeBits(publicKeyPEM)
	if bits <= 0 {
		return 0, fmt.Errorf("empty public key body")
	}
	return bits, nil
}

// ModulusSizer parses the key and returns the exact modulus length.
type ModulusSizer struct{}

func (ModulusSizer) KeySizeBits(publicKeyPEM string) (int, error) {
	pub, err := ParsePublicKey(publicKeyPEM)
	if err != nil {
		return 0, err
	}
	return pub.N.BitLen(), nil
}

// NewKeySizer returns the sizer registered under name ("estimate" or "modulus").
func NewKeySizer(name string) (KeySizer, error) {
	switch name {
	case "", "estimate":
		return EstimatingSizer{}, nil
	case "modulus":
		return ModulusSizer{}, nil
	default:
		return nil, fmt.Errorf("unknown key sizer %q", name)
	}
}

// EstimateKeySizeBits approximates the modulus size of a PEM public key from
// the length of its base64 body.
//
// This is an estimate, not a parse: it assumes the usual PKIX encoding of an
// RSA key with a small public exponent and can be off for atypical encodings.
// It is only meant for choosing a chunk size; do not base cryptographic
// decisions on it.
func EstimateKeySizeBits(publicKeyPEM string) int {
	body := strings.Replace(publicKeyPEM, PublicKeyHeader, "", 1)
	body = strings.Replace(body, PublicKeyFooter, "", 1)
	body = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, body)

	sizeInBytes := float64(len(body)) * 3 / 4
	return int(math.Round(sizeInBytes * 8 / derOverheadRatio))
}
