// Package mcp provides an MCP (Model Context Protocol) server adapter for
// ragchat. It lets AI assistants ingest a document into a session and ask
// questions about it.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")
