// Package cli implements the ragchat command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
	"github.com/custodia-labs/ragchat/internal/normalisers/plaintext"
)

// version is set at build time via -ldflags.
var version = "dev"

// PromptWatcher reports prompt template changes until ctx is done.
type PromptWatcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// PromptSource loads prompt templates by name.
type PromptSource interface {
	Load(name string) (string, error)
}

// Services holds the dependencies the commands run against.
type Services struct {
	Session  driving.SessionService
	Models   driving.ModelSelector
	Settings driving.SettingsService
	Prompts  PromptSource
	Watcher  PromptWatcher

	// Warnings are problems found while wiring the services, such as an
	// embedding provider fallback. They are shown by commands that embed.
	Warnings []string
}

// Connector builds the session services when a command first needs them.
// release frees what it opened, such as the index connection.
type Connector func(ctx context.Context) (s Services, release func(), err error)

// sessionAnnotation marks commands that run against the session.
const sessionAnnotation = "ragchat/session"

var (
	connector      Connector
	releaseSession func()

	sessionService  driving.SessionService
	modelSelector   driving.ModelSelector
	settingsService driving.SettingsService
	promptSource    PromptSource
	promptWatcher   PromptWatcher
	startupWarnings []string

	textReader = plaintext.New(plaintext.DefaultMaxBytes)
)

// SetServices configures the services used by the commands.
func SetServices(s Services) {
	settingsService = s.Settings
	attachSession(s)
}

// SetConnector defers building the session until a command marked with
// sessionAnnotation runs, so settings and version work even when the
// configured index cannot be opened.
func SetConnector(c Connector) {
	connector = c
}

func attachSession(s Services) {
	sessionService = s.Session
	modelSelector = s.Models
	promptSource = s.Prompts
	promptWatcher = s.Watcher
	startupWarnings = s.Warnings
}

// needsSession marks cmd so the session is connected before it runs.
func needsSession(cmd *cobra.Command) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[sessionAnnotation] = "true"
}

func connectSession(cmd *cobra.Command) error {
	if cmd.Annotations[sessionAnnotation] == "" || sessionService != nil || connector == nil {
		return nil
	}
	s, release, err := connector(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("%w (change it with 'ragchat settings set' or 'ragchat settings wizard')", err)
	}
	attachSession(s)
	releaseSession = release
	return nil
}

func disconnectSession() {
	if releaseSession != nil {
		releaseSession()
		releaseSession = nil
	}
}

var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Ask questions about a document",
	Long: `ragchat indexes a text document and answers questions about it using
Google Gemini. The passage most similar to the question is retrieved from
the index and sent to the model together with the question.

Get started:
  export GEMINI_API_KEY=...
  ragchat ask --file notes.txt "What is the deadline?"
  ragchat chat`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)
		return connectSession(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print pipeline details to stderr")
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx. Command output goes to
// stdout; cobra's print helpers default to stderr.
func ExecuteContext(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return runRoot(ctx)
}

// runRoot executes the root command and releases a session connected on
// the way.
func runRoot(ctx context.Context) error {
	defer disconnectSession()
	return rootCmd.ExecuteContext(ctx)
}

// friendlyError strips the wrapping from errors the user can fix so the
// message reads as an instruction.
func friendlyError(err error) error {
	if cause := domain.ActionableCause(err); cause != nil {
		return cause
	}
	return err
}

func printStartupWarnings(cmd *cobra.Command) {
	for _, w := range startupWarnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
}

// commandContext returns the command's context, or Background when the
// command was run without Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// apiKeyFromEnv returns the first non-empty key from apiKeyEnvVars.
func apiKeyFromEnv() string {
	for _, name := range apiKeyEnvVars {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

// watchPrompts starts the prompt watcher if one is configured. A nil
// channel is returned when watching is unavailable.
func watchPrompts(ctx context.Context) <-chan string {
	if promptWatcher == nil {
		return nil
	}
	events, err := promptWatcher.Watch(ctx)
	if err != nil {
		logger.Warn("prompt watcher disabled: %v", err)
		return nil
	}
	return events
}

func requireSession() error {
	if sessionService == nil {
		return errors.New("session not configured")
	}
	return nil
}
