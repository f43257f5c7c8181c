package rsacrypt

import (
	"sync"
	"testing"
)

var (
	testKeysMu sync.Mutex
	testKeys   = map[int]*KeyPair{}
)

// testKeyPair returns a cached key pair of the given size so each size is
// generated once per test binary.
func testKeyPair(t *testing.T, bits int) *KeyPair {
	t.Helper()
	testKeysMu.Lock()
	defer testKeysMu.Unlock()

	if kp, ok := testKeys[bits]; ok {
		return kp
	}
	kp, err := GenerateKeyPair(bits)
	if err != nil {
		t.Fatalf("GenerateKeyPair(%d) failed: %v", bits, err)
	}
	testKeys[bits] = kp
	return kp
}

// otherKeyPair returns a second, distinct 1024-bit pair.
func otherKeyPair(t *testing.T) *KeyPair {
	t.Helper()
	testKeysMu.Lock()
	defer testKeysMu.Unlock()

	const slot = -1024
	if kp, ok := testKeys[slot]; ok {
		return kp
	}
	kp, err := GenerateKeyPair(1024)
	if err != nil {
		t.Fatalf("GenerateKeyPair(1024) failed: %v", err)
	}
	testKeys[slot] = kp
	return kp
}
