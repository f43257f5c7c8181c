// Package errors provides typed error values for rsakit.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Operation errors: the failure kind (ErrEncryption, ErrDecryption,
//     ErrKeyGeneration, ErrCodec, ErrSigning)
//   - Key errors: why key material was rejected (ErrInvalidPublicKey,
//     ErrUnsupportedKeySize, ErrMalformedEnvelope)
//   - Store errors: ErrKeyNotFound, ErrAmbiguousKey
//   - File and config errors: ErrNoFilesFound, ErrInvalidConfig
//
// Failures inside a chunked operation are reported as *ChunkError, which
// carries the operation name and chunk index and matches both its kind and
// its cause:
//
//	_, err := rsacrypt.Decrypt(priv, env)
//	if errors.Is(err, kerrors.ErrDecryption) {
//	    var ce *kerrors.ChunkError
//	    if errors.As(err, &ce) {
//	        log.Printf("chunk %d failed", ce.Index)
//	    }
//	}
//
// Error messages never include key material.
package errors
