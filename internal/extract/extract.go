package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

const (
	PDFPlaceholder  = "PDF content extraction would require additional libraries"
	WordPlaceholder = "Word document content extraction would require additional libraries"

	DefaultMaxBytes = 10 << 20
)

type File struct {
	Name      string
	MediaType string
	// Size is the declared length, or 0 when unknown.
	Size int64
	Body io.Reader
}

type kind int

const (
	kindUnsupported kind = iota
	kindText
	kindPDF
	kindWord
)

// Extractor turns uploaded notices into text. Word documents always yield a
// placeholder; PDFs do too unless Documents is set.
type Extractor struct {
	Documents bool
	MaxBytes  int64
}

func New(documents bool, maxBytes int64) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Extractor{Documents: documents, MaxBytes: maxBytes}
}

// Supported reports whether mediaType would be accepted by Extract.
func Supported(mediaType string) bool {
	return classify(mediaType) != kindUnsupported
}

func (e *Extractor) Extract(ctx context.Context, f File) (string, error) {
	k := classify(f.MediaType)
	if k == kindUnsupported {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, f.MediaType)
	}
	if f.Size > e.maxBytes() {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, f.Size)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch k {
	case kindWord:
		return WordPlaceholder, nil
	case kindPDF:
		if !e.Documents {
			return PDFPlaceholder, nil
		}
		data, err := e.readAll(f)
		if err != nil {
			return "", err
		}
		return extractPDF(data)
	default:
		data, err := e.readAll(f)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func (e *Extractor) maxBytes() int64 {
	if e.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return e.MaxBytes
}

func (e *Extractor) readAll(f File) ([]byte, error) {
	if f.Body == nil {
		return nil, errors.New("missing file body")
	}
	limit := e.maxBytes()
	data, err := io.ReadAll(io.LimitReader(f.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}

func classify(mediaType string) kind {
	base, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		base = strings.ToLower(strings.TrimSpace(mediaType))
	}
	switch {
	case base == "text/plain":
		return kindText
	case base == "application/pdf":
		return kindPDF
	case strings.Contains(base, "word"):
		return kindWord
	default:
		return kindUnsupported
	}
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("extract pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract plain text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return buf.String(), nil
}
