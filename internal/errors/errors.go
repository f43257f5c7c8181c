package errors

import (
	"errors"
	"fmt"
)

// Operation errors are the top-level failure kinds surfaced to callers.
var (
	// ErrKeyGeneration indicates a key pair could not be generated.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrEncryption indicates a payload could not be encrypted.
	ErrEncryption = errors.New("encryption failed")

	// ErrDecryption indicates an envelope could not be decrypted.
	ErrDecryption = errors.New("decryption failed")

	// ErrCodec indicates a file payload could not be wrapped or unwrapped.
	ErrCodec = errors.New("payload codec failed")

	// ErrSigning indicates a message could not be signed.
	ErrSigning = errors.New("signing failed")
)

// Key errors describe why key material was rejected.
var (
	// ErrUnsupportedKeySize indicates the requested modulus size is not supported.
	ErrUnsupportedKeySize = errors.New("unsupported key size")

	// ErrKeyTooSmall indicates the key leaves no room for plaintext after padding.
	ErrKeyTooSmall = errors.New("key too small for PKCS#1 v1.5 padding")

	// ErrInvalidPublicKey indicates the public key is malformed or not RSA.
	ErrInvalidPublicKey = errors.New("invalid or unsupported public key")

	// ErrInvalidPrivateKey indicates the private key is malformed or not RSA.
	ErrInvalidPrivateKey = errors.New("invalid or unsupported private key")

	// ErrMalformedEnvelope indicates the ciphertext envelope could not be parsed.
	ErrMalformedEnvelope = errors.New("malformed envelope")
)

// Store errors indicate issues locating persisted keys.
var (
	// ErrKeyNotFound indicates no stored key matched the reference.
	ErrKeyNotFound = errors.New("key not found")

	// ErrAmbiguousKey indicates more than one stored key matched the reference.
	ErrAmbiguousKey = errors.New("key reference is ambiguous")

	// ErrNoKeySpecified indicates neither a stored key nor key material was given.
	ErrNoKeySpecified = errors.New("no key specified")

	// ErrKeyMismatch indicates an imported public key does not belong to the private key.
	ErrKeyMismatch = errors.New("public key does not match private key")
)

// File and configuration errors.
var (
	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidConfig indicates the configuration is malformed.
	ErrInvalidConfig = errors.New("configuration is invalid")
)

// ChunkError records which chunk of a multi-chunk operation failed.
//
// It unwraps to both Kind and Err, so errors.Is matches the operation kind
// (for example ErrDecryption) as well as the underlying cause.
type ChunkError struct {
	Op    string
	Index int
	Total int
	Kind  error
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%s: %s chunk %d of %d: %v", e.Kind, e.Op, e.Index+1, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
