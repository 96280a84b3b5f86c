// Package normalisers turns uploaded files into the text that is ingested.
// Only plain text is supported; see the plaintext package.
package normalisers
