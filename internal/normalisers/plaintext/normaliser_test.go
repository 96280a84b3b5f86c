package plaintext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

func TestNew(t *testing.T) {
	assert.Equal(t, int64(DefaultMaxBytes), New(0).maxBytes)
	assert.Equal(t, int64(5), New(5).maxBytes)
}

func TestSupportedExtensions(t *testing.T) {
	exts := New(0).SupportedExtensions()

	assert.Contains(t, exts, ".txt")
	assert.Contains(t, exts, ".md")
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain", []byte("hello world"), "hello world"},
		{"bom stripped", append([]byte{0xEF, 0xBB, 0xBF}, []byte("hi")...), "hi"},
		{"crlf", []byte("a\r\nb\r\n"), "a\nb\n"},
		{"bare cr", []byte("a\rb"), "a\nb"},
		{"unicode kept", []byte("café ☕"), "café ☕"},
		{"empty", []byte{}, ""},
		{"whitespace kept", []byte("  padded  "), "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalise(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalise_Rejects(t *testing.T) {
	for name, in := range map[string][]byte{
		"invalid utf8": {0xff, 0xfe, 'a'},
		"nul byte":     []byte("abc\x00def"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Normalise(in)
			assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		})
	}
}

func TestRead(t *testing.T) {
	n := New(0)

	got, err := n.Read(strings.NewReader("Paris is the capital of France.\r\n"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.\n", got)

	// Unknown extension, sniffed as text.
	got, err = n.Read(strings.NewReader("plain words"), "-")
	require.NoError(t, err)
	assert.Equal(t, "plain words", got)
}

func TestRead_RejectsBinary(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	_, err := New(0).Read(strings.NewReader(string(png)), "image.png")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "image.png")
}

func TestRead_TooLarge(t *testing.T) {
	_, err := New(4).Read(strings.NewReader("12345"), "big.txt")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nBody"), 0600))

	got, err := New(0).ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody", got)

	_, err = New(0).ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
