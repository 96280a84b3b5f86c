// Package plaintext decodes uploaded text files into document text.
package plaintext

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// DefaultMaxBytes caps the size of an uploaded document.
const DefaultMaxBytes = 10 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser decodes UTF-8 text files.
type Normaliser struct {
	maxBytes int64
}

// New creates a new plain text normaliser. maxBytes of zero or less uses
// DefaultMaxBytes.
func New(maxBytes int64) *Normaliser {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Normaliser{maxBytes: maxBytes}
}

// SupportedExtensions returns the file extensions accepted without sniffing.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt", ".text", ".md", ".markdown", ".csv", ".log"}
}

// ReadFile reads and decodes the file at path.
func (n *Normaliser) ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	return n.Read(f, filepath.Base(path))
}

// Read decodes r. name is used only to choose between the extension list
// and content sniffing.
func (n *Normaliser) Read(r io.Reader, name string) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, n.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if int64(len(raw)) > n.maxBytes {
		return "", fmt.Errorf("%w: document larger than %d bytes", domain.ErrInvalidInput, n.maxBytes)
	}
	if !n.accepts(name, raw) {
		return "", fmt.Errorf("%w: %s is not a text file", domain.ErrUnsupportedType, displayName(name))
	}
	return Normalise(raw)
}

// accepts reports whether the content should be treated as text.
func (n *Normaliser) accepts(name string, raw []byte) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range n.SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	if ext != "" {
		if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "text/") {
			return true
		}
	}
	return strings.HasPrefix(http.DetectContentType(raw), "text/")
}

// Normalise converts raw bytes to text: strips a UTF-8 byte order mark and
// converts CRLF and CR line endings to LF. Invalid UTF-8 and NUL bytes are
// rejected with domain.ErrUnsupportedType.
func Normalise(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if bytes.IndexByte(raw, 0) >= 0 {
		return "", fmt.Errorf("%w: binary content", domain.ErrUnsupportedType)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: not valid UTF-8", domain.ErrUnsupportedType)
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}

func displayName(name string) string {
	if name == "" || name == "-" {
		return "input"
	}
	return name
}
