package services

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/ragchat/internal/logger"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// countTokens estimates the token count of text for verbose output.
// Returns -1 when verbose mode is off or no encoding is available; the
// encoding is loaded lazily because it may need a download.
func countTokens(text string) int {
	if !logger.IsVerbose() {
		return -1
	}
	encodingOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
		if err != nil {
			logger.Debug("token estimate unavailable: %v", err)
			return
		}
		encoding = enc
	})
	if encoding == nil {
		return -1
	}
	return len(encoding.Encode(text, nil, nil))
}
