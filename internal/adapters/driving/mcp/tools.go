package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Text string `json:"text" jsonschema:"the full plain text of the document to index"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
	Entries    int    `json:"entries"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed document"`
	APIKey   string `json:"api_key,omitempty" jsonschema:"Gemini API key; defaults to the server's key"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string   `json:"answer"`
	Model    string   `json:"model"`
	SourceID string   `json:"source_id,omitempty"`
	Score    float64  `json:"score"`
	Context  string   `json:"context,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ModelsInput is the input schema for the models tool.
type ModelsInput struct {
	APIKey string `json:"api_key,omitempty" jsonschema:"Gemini API key; defaults to the server's key"`
}

// ModelsOutput is the output schema for the models tool.
type ModelsOutput struct {
	Models   []string `json:"models"`
	Selected string   `json:"selected"`
	Warning  string   `json:"warning,omitempty"`
}

// NoInput is the input schema for tools without arguments.
type NoInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Index a plain text document so questions can be asked about it",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the most relevant passage of the indexed document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset",
		Description: "Remove the indexed document",
	}, s.handleReset)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report what the index holds",
	}, s.handleStatus)

	if s.ports.Models != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "models",
			Description: "List the Gemini models the API key can use and the one selected for answers",
		}, s.handleModels)
	}
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	doc, err := s.ports.Session.Ingest(ctx, input.Text)
	if err != nil {
		return nil, IngestOutput{}, toolError(err)
	}

	st, err := s.ports.Session.Status(ctx)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{DocumentID: doc.ID, Entries: st.Entries}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Session.Ask(ctx, input.Question, s.apiKey(input.APIKey))
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}

	return nil, AskOutput{
		Answer:   answer.Text,
		Model:    answer.Model.String(),
		SourceID: answer.SourceID,
		Score:    answer.Score,
		Context:  answer.Context,
		Warnings: answer.Warnings,
	}, nil
}

// handleReset handles the reset tool invocation.
func (s *Server) handleReset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, domain.SessionStatus, error) {
	if err := s.ports.Session.Reset(ctx); err != nil {
		return nil, domain.SessionStatus{}, err
	}
	st, err := s.ports.Session.Status(ctx)
	if err != nil {
		return nil, domain.SessionStatus{}, err
	}
	return nil, st, nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, domain.SessionStatus, error) {
	st, err := s.ports.Session.Status(ctx)
	if err != nil {
		return nil, domain.SessionStatus{}, err
	}
	return nil, st, nil
}

// handleModels handles the models tool invocation.
func (s *Server) handleModels(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ModelsInput,
) (*mcp.CallToolResult, ModelsOutput, error) {
	apiKey := s.apiKey(input.APIKey)
	if apiKey == "" {
		return nil, ModelsOutput{}, domain.ErrMissingAPIKey
	}

	names, err := s.ports.Models.Available(ctx, apiKey)
	if err != nil {
		return nil, ModelsOutput{}, err
	}
	selection := s.ports.Models.Select(ctx, apiKey)

	out := ModelsOutput{Models: names, Selected: selection.Model.String()}
	if selection.Warning != nil {
		out.Warning = selection.Warning.Error()
	}
	return nil, out, nil
}

func (s *Server) apiKey(fromCall string) string {
	if key := strings.TrimSpace(fromCall); key != "" {
		return key
	}
	return strings.TrimSpace(s.ports.APIKey)
}

// toolError strips the wrapping from errors the caller can fix.
func toolError(err error) error {
	if cause := domain.ActionableCause(err); cause != nil {
		return cause
	}
	return err
}
