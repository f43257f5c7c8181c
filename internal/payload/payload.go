package payload

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMimeType is used when a payload carries no type.
const DefaultMimeType = "application/octet-stream"

// blockSize bounds each base64 read or write. It is a multiple of 3 so the
// encoder never holds a partial quantum between blocks.
const blockSize = 48 * 1024

// FilePayload is the JSON record encrypted in place of a raw file.
// SizeBytes is the original file length, not the encoded length.
type FilePayload struct {
	Name          string `json:"name"`
	MimeType      string `json:"type"`
	SizeBytes     int64  `json:"size"`
	ContentBase64 string `json:"content"`
}

// File is an unwrapped payload.
type File struct {
	Content  []byte
	Name     string
	MimeType string
}

// Wrap base64-encodes content into a FilePayload. An empty mimeType is
// detected from the content.
func Wrap(content []byte, name, mimeType string, sizeBytes int64) (*FilePayload, error) {
	if mimeType == "" {
		mimeType = DetectMimeType(content)
	}
	return WrapReader(bytes.NewReader(content), name, mimeType, sizeBytes)
}

// WrapReader is Wrap for streamed content. The body is encoded in bounded
// blocks; mimeType defaults to DefaultMimeType when empty.
func WrapReader(r io.Reader, name, mimeType string, sizeBytes int64) (*FilePayload, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: payload name is empty", kerrors.ErrCodec)
	}
	if sizeBytes < 0 {
		return nil, fmt.Errorf("%w: negative size %d", kerrors.ErrCodec, sizeBytes)
	}
	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	var out strings.Builder
	if sized, ok := r.(interface{ Len() int }); ok {
		out.Grow(base64.StdEncoding.EncodedLen(sized.Len()))
	}
	enc := base64.NewEncoder(base64.StdEncoding, &out)
	n, err := io.CopyBuffer(enc, r, make([]byte, blockSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrCodec, name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: encoding %s: %v", kerrors.ErrCodec, name, err)
	}
	if sizeBytes > 0 && n != sizeBytes {
		return nil, fmt.Errorf("%w: %s: read %d bytes, expected %d", kerrors.ErrCodec, name, n, sizeBytes)
	}

	return &FilePayload{
		Name:          name,
		MimeType:      mimeType,
		SizeBytes:     n,
		ContentBase64: out.String(),
	}, nil
}

// Marshal serializes the payload to the JSON plaintext that gets encrypted.
func (p *FilePayload) Marshal() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrCodec, err)
	}
	return string(data), nil
}

// wirePayload detects missing fields, which plain FilePayload cannot.
type wirePayload struct {
	Name    *string `json:"name"`
	Type    string  `json:"type"`
	Size    int64   `json:"size"`
	Content *string `json:"content"`
}

// Unwrap parses decrypted JSON back into the original bytes and metadata.
func Unwrap(plaintextJSON string) (*File, error) {
	p, err := Parse(plaintextJSON)
	if err != nil {
		return nil, err
	}

	dec := base64.NewDecoder(base64.StdEncoding, strings.NewReader(p.ContentBase64))
	var content bytes.Buffer
	content.Grow(base64.StdEncoding.DecodedLen(len(p.ContentBase64)))
	if _, err := io.CopyBuffer(&content, dec, make([]byte, blockSize)); err != nil {
		return nil, fmt.Errorf("%w: content of %s is not valid base64: %v", kerrors.ErrCodec, p.Name, err)
	}
	if p.SizeBytes > 0 && int64(content.Len()) != p.SizeBytes {
		return nil, fmt.Errorf("%w: %s: decoded %d bytes, payload declares %d", kerrors.ErrCodec, p.Name, content.Len(), p.SizeBytes)
	}

	return &File{
		Content:  content.Bytes(),
		Name:     p.Name,
		MimeType: p.MimeType,
	}, nil
}

// Parse decodes payload JSON without decoding the content.
func Parse(plaintextJSON string) (*FilePayload, error) {
	var w wirePayload
	if err := json.Unmarshal([]byte(plaintextJSON), &w); err != nil {
		return nil, fmt.Errorf("%w: payload is not valid JSON: %v", kerrors.ErrCodec, err)
	}
	if w.Content == nil {
		return nil, fmt.Errorf("%w: payload has no content field", kerrors.ErrCodec)
	}
	if w.Name == nil || *w.Name == "" {
		return nil, fmt.Errorf("%w: payload has no name", kerrors.ErrCodec)
	}
	if w.Size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", kerrors.ErrCodec, w.Size)
	}

	mimeType := w.Type
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	return &FilePayload{
		Name:          *w.Name,
		MimeType:      mimeType,
		SizeBytes:     w.Size,
		ContentBase64: *w.Content,
	}, nil
}

// DetectMimeType sniffs content and returns its MIME type without parameters.
func DetectMimeType(content []byte) string {
	mt := mimetype.Detect(content).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	if mt == "" {
		return DefaultMimeType
	}
	return mt
}
