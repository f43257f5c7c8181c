// Package rsacrypt implements the RSA operations behind rsakit.
//
// # Chunked Envelopes
//
// RSA with PKCS#1 v1.5 padding encrypts at most MaxPlaintextBytes(bits)
// bytes per call (bits/8 - 11). Longer plaintext is cut on byte boundaries
// into blocks of exactly that size, the last one possibly shorter, and every
// block is encrypted on its own:
//
//	plaintext (L bytes) -> ceil(L/limit) blocks -> base64 ciphertexts
//
// The result is an Envelope. On the wire a single block is written as
// "." followed by the ciphertext, and a chunked envelope as ":" followed by
// a JSON array of ciphertexts. ParseEnvelope also accepts the untagged
// legacy forms (bare ciphertext, or a bare JSON array).
//
// Encryption and decryption are all-or-nothing. A failing block aborts the
// operation with a *errors.ChunkError naming its index.
//
// # Key Size
//
// The chunk limit comes from a KeySizer. EstimatingSizer derives the size
// from the PEM body length, which undershoots and is therefore safe;
// ModulusSizer parses the key for the exact value.
//
// # Signatures
//
// Sign hashes the message with SHA-256 and signs the hex digest, so message
// length never matters. Verify recomputes the digest from the message and
// returns false for any mismatch or malformed input.
package rsacrypt
