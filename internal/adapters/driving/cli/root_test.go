package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "ragchat", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	if assert.NotNil(t, flag) {
		assert.Equal(t, "v", flag.Shorthand)
	}
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"ask", "ingest", "chat", "models", "status", "reset", "settings", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestFriendlyError(t *testing.T) {
	other := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"wrapped blank question", fmt.Errorf("ask: %w", domain.ErrBlankQuestion), domain.ErrBlankQuestion},
		{"wrapped empty document", fmt.Errorf("ingest: %w", domain.ErrEmptyDocument), domain.ErrEmptyDocument},
		{"other error", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, friendlyError(tt.err))
		})
	}
}

func TestCommandContext(t *testing.T) {
	cmd := &cobra.Command{}
	assert.NotNil(t, commandContext(cmd))

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	cmd.SetContext(ctx)
	assert.Equal(t, "v", commandContext(cmd).Value(ctxKey{}))
}
