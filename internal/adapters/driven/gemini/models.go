package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// listModelsResponse is the GET /models response format.
type listModelsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the fully qualified model names available to apiKey,
// in registry order. A body without a models list yields an empty slice.
func (c *Client) ListModels(ctx context.Context, apiKey string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("gemini: create request: %w", err)
	}

	status, body, err := c.do(ctx, req, apiKey)
	if err != nil {
		return nil, fmt.Errorf("gemini: list models: %w", err)
	}
	if status != http.StatusOK {
		if msg := errorMessage(body); msg != "" {
			return nil, fmt.Errorf("gemini: list models (status %d): %s", status, msg)
		}
		return nil, fmt.Errorf("gemini: list models: status %d", status)
	}

	var resp listModelsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("gemini: decode models: %w", err)
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}
