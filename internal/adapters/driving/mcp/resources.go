package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme    = "ragchat://"
	statusURI    = uriScheme + "status"
	promptPrefix = uriScheme + "prompts/"
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         statusURI,
		Name:        "status",
		Description: "What the index holds and how documents are embedded",
		MIMEType:    "application/json",
	}, s.readStatus)

	if s.ports.Prompts == nil {
		return
	}
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: promptPrefix + "{name}",
		Name:        "prompt",
		Description: "Prompt template wrapped around the retrieved context and question",
		MIMEType:    "text/plain",
	}, s.readPrompt)
}

func (s *Server) readStatus(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	st, err := s.ports.Session.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}
	return contents(req.Params.URI, "application/json", string(data)), nil
}

// readPrompt serves ragchat://prompts/{name}. Unknown names are reported
// as missing resources, not internal errors.
func (s *Server) readPrompt(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	name := extractPromptName(uri)
	if name == "" || s.ports.Prompts == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	text, err := s.ports.Prompts.Load(name)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return contents(uri, "text/plain", text), nil
}

func contents(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeType, Text: text}},
	}
}

// extractPromptName returns {name} from ragchat://prompts/{name}, or ""
// when uri has another shape.
func extractPromptName(uri string) string {
	name, ok := strings.CutPrefix(uri, promptPrefix)
	if !ok || strings.Contains(name, "/") {
		return ""
	}
	return name
}
