package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type forbiddenReader struct {
	t *testing.T
}

func (r forbiddenReader) Read(_ []byte) (int, error) {
	r.t.Fatalf("body must not be read")
	return 0, nil
}

func TestExtractPlainText(t *testing.T) {
	content := "GSTIN: 27AAAAA0000A1Z5\nShow cause notice under Section 73.\n₹ 1,20,000 demand\n"
	ex := New(false, 0)
	for _, mt := range []string{"text/plain", "text/plain; charset=utf-8", "TEXT/PLAIN"} {
		got, err := ex.Extract(context.Background(), File{Name: "notice.txt", MediaType: mt, Body: strings.NewReader(content)})
		if err != nil {
			t.Fatalf("%s: extract: %v", mt, err)
		}
		if got != content {
			t.Fatalf("%s: expected exact content, got %q", mt, got)
		}
	}
}

func TestExtractUnsupportedDoesNotRead(t *testing.T) {
	ex := New(true, 0)
	for _, mt := range []string{"image/png", "application/zip", "", "text/html"} {
		_, err := ex.Extract(context.Background(), File{Name: "x", MediaType: mt, Body: forbiddenReader{t: t}})
		if !errors.Is(err, ErrUnsupportedFileType) {
			t.Fatalf("%q: expected ErrUnsupportedFileType, got %v", mt, err)
		}
	}
}

func TestExtractPlaceholders(t *testing.T) {
	ex := New(false, 0)
	got, err := ex.Extract(context.Background(), File{MediaType: "application/pdf", Body: forbiddenReader{t: t}})
	if err != nil || got != PDFPlaceholder {
		t.Fatalf("expected pdf placeholder, got %q (%v)", got, err)
	}
	for _, mt := range []string{"application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"} {
		got, err := ex.Extract(context.Background(), File{MediaType: mt, Body: forbiddenReader{t: t}})
		if err != nil || got != WordPlaceholder {
			t.Fatalf("%s: expected word placeholder, got %q (%v)", mt, got, err)
		}
	}
}

func TestExtractWordPlaceholderEvenWithDocuments(t *testing.T) {
	ex := New(true, 0)
	got, err := ex.Extract(context.Background(), File{MediaType: "application/msword", Body: forbiddenReader{t: t}})
	if err != nil || got != WordPlaceholder {
		t.Fatalf("expected word placeholder, got %q (%v)", got, err)
	}
}

func TestExtractInvalidPDFFails(t *testing.T) {
	ex := New(true, 0)
	_, err := ex.Extract(context.Background(), File{MediaType: "application/pdf", Body: strings.NewReader("definitely not a pdf")})
	if err == nil {
		t.Fatalf("expected error for invalid pdf")
	}
	if errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("invalid pdf is not an unsupported type: %v", err)
	}
}

func TestExtractTooLarge(t *testing.T) {
	ex := New(false, 8)
	_, err := ex.Extract(context.Background(), File{MediaType: "text/plain", Body: strings.NewReader("123456789")})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	_, err = ex.Extract(context.Background(), File{MediaType: "text/plain", Size: 9, Body: forbiddenReader{t: t}})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected declared size to be rejected, got %v", err)
	}
	got, err := ex.Extract(context.Background(), File{MediaType: "text/plain", Body: strings.NewReader("12345678")})
	if err != nil || got != "12345678" {
		t.Fatalf("expected content at the limit to pass, got %q (%v)", got, err)
	}
}

func TestSupported(t *testing.T) {
	if !Supported("application/pdf") || !Supported("text/plain") || !Supported("application/msword") {
		t.Fatalf("expected supported types")
	}
	if Supported("image/jpeg") {
		t.Fatalf("jpeg must not be supported")
	}
}
