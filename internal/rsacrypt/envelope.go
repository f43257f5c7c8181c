package rsacrypt

import (
	"encoding/json"
	"fmt"
	"strings"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
)

// EnvelopeKind distinguishes a single-block envelope from a chunked one.
type EnvelopeKind int

const (
	Single EnvelopeKind = iota
	Chunked
)

func (k EnvelopeKind) String() string {
	switch k {
	case Single:
		return "single"
	case Chunked:
		return "chunked"
	default:
		return fmt.Sprintf("EnvelopeKind(%d)", int(k))
	}
}

// Wire tags. Neither byte is in the base64 alphabet and neither is '[', so a
// tagged envelope can never be mistaken for the legacy untagged forms.
const (
	tagSingle  = '.'
	tagChunked = ':'
)

// Envelope is the ciphertext container produced by Encrypt. Chunks hold
// base64 ciphertexts in reassembly order; a Single envelope has exactly one.
type Envelope struct {
	Kind   EnvelopeKind
	Chunks []string
}

// Len returns the number of ciphertext blocks.
func (e Envelope) Len() int {
	return len(e.Chunks)
}

// String returns the tagged wire form, or "" when the envelope is invalid.
func (e Envelope) String() string {
	text, err := e.MarshalText()
	if err != nil {
		return ""
	}
	return string(text)
}

func (e Envelope) validate() error {
	switch e.Kind {
	case Single:
		if len(e.Chunks) != 1 {
			return fmt.Errorf("%w: single envelope with %d chunks", kerrors.ErrMalformedEnvelope, len(e.Chunks))
		}
	case Chunked:
		if len(e.Chunks) == 0 {
			return fmt.Errorf("%w: chunked envelope with no chunks", kerrors.ErrMalformedEnvelope)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", kerrors.ErrMalformedEnvelope, int(e.Kind))
	}
	return nil
}

// MarshalText encodes the envelope as "." + ciphertext for a single block or
// ":" + JSON array of ciphertexts for a chunked one.
func (e Envelope) MarshalText() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	if e.Kind == Single {
		return append([]byte{tagSingle}, e.Chunks[0]...), nil
	}
	body, err := json.Marshal(e.Chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedEnvelope, err)
	}
	return append([]byte{tagChunked}, body...), nil
}

// UnmarshalText accepts the tagged forms and the legacy untagged ones.
func (e *Envelope) UnmarshalText(text []byte) error {
	parsed, err := ParseEnvelope(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Legacy returns the untagged form: the bare ciphertext for a single block,
// or a JSON array of ciphertexts when chunking occurred.
func (e Envelope) Legacy() (string, error) {
	if err := e.validate(); err != nil {
		return "", err
	}
	if e.Kind == Single {
		return e.Chunks[0], nil
	}
	body, err := json.Marshal(e.Chunks)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrMalformedEnvelope, err)
	}
	return string(body), nil
}

// ParseEnvelope decodes an envelope in tagged or legacy form.
//
// Legacy input is detected the way older clients wrote it: a JSON array is a
// chunked envelope and anything else, including JSON that is not an array,
// is a single ciphertext.
func ParseEnvelope(text string) (Envelope, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Envelope{}, fmt.Errorf("%w: %w: empty input", kerrors.ErrDecryption, kerrors.ErrMalformedEnvelope)
	}

	switch text[0] {
	case tagSingle:
		body := strings.TrimSpace(text[1:])
		if body == "" {
			return Envelope{}, fmt.Errorf("%w: %w: empty ciphertext", kerrors.ErrDecryption, kerrors.ErrMalformedEnvelope)
		}
		return Envelope{Kind: Single, Chunks: []string{body}}, nil
	case tagChunked:
		var chunks []string
		if err := json.Unmarshal([]byte(text[1:]), &chunks); err != nil {
			return Envelope{}, fmt.Errorf("%w: %w: %v", kerrors.ErrDecryption, kerrors.ErrMalformedEnvelope, err)
		}
		if len(chunks) == 0 {
			return Envelope{}, fmt.Errorf("%w: %w: no chunks", kerrors.ErrDecryption, kerrors.ErrMalformedEnvelope)
		}
		return Envelope{Kind: Chunked, Chunks: chunks}, nil
	}

	var chunks []string
	if err := json.Unmarshal([]byte(text), &chunks); err == nil && chunks != nil {
		if len(chunks) == 0 {
			return Envelope{}, fmt.Errorf("%w: %w: no chunks", kerrors.ErrDecryption, kerrors.ErrMalformedEnvelope)
		}
		return Envelope{Kind: Chunked, Chunks: chunks}, nil
	}
	return Envelope{Kind: Single, Chunks: []string{text}}, nil
}
