package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// generateRequest is the generateContent request format.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the generateContent response format. Pointers mark
// fields whose absence makes the reply malformed.
type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// errorResponse is the error body returned with non-success statuses.
type errorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends prompt to the model's generateContent endpoint and returns
// the first candidate's first text part. One attempt, no retries.
func (c *Client) Complete(ctx context.Context, prompt string, model domain.ModelDescriptor, apiKey string) (string, error) {
	jsonBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := c.baseURL + "/models/" + url.PathEscape(modelPath(model)) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", &domain.GenerationTransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(ctx, req, apiKey)
	if err != nil {
		return "", &domain.GenerationTransportError{Status: status, Err: err}
	}

	if status != http.StatusOK {
		if msg := errorMessage(body); msg != "" {
			return "", &domain.GenerationAPIError{Status: status, Message: msg}
		}
		return "", &domain.GenerationTransportError{Status: status}
	}

	return parseAnswer(body)
}

// parseAnswer extracts candidates[0].content.parts[0].text.
func parseAnswer(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationMalformedResponse, err)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked: %s",
				domain.ErrGenerationMalformedResponse, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", domain.ErrGenerationMalformedResponse)
	}

	first := resp.Candidates[0]
	if first.Content == nil || len(first.Content.Parts) == 0 {
		if first.FinishReason != "" {
			return "", fmt.Errorf("%w: no content parts (finish reason %s)",
				domain.ErrGenerationMalformedResponse, first.FinishReason)
		}
		return "", fmt.Errorf("%w: no content parts", domain.ErrGenerationMalformedResponse)
	}

	text := first.Content.Parts[0].Text
	if text == nil {
		return "", fmt.Errorf("%w: first part has no text", domain.ErrGenerationMalformedResponse)
	}
	return *text, nil
}

// errorMessage returns error.message from a JSON error body, or "" when the
// body is not such a document.
func errorMessage(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == nil {
		return ""
	}
	return resp.Error.Message
}

// modelPath strips the "models/" prefix the registry returns.
func modelPath(model domain.ModelDescriptor) string {
	return strings.TrimPrefix(model.String(), "models/")
}
