package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// apiKeyEnvVars are checked in order when --api-key is not given.
var apiKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Ask a question about the indexed document",
	Long: `Answer a question using the passage of the indexed document most similar
to it as context.

The Gemini API key is taken from --api-key, then GEMINI_API_KEY or
GOOGLE_API_KEY. When none is set and stdin is a terminal, you are prompted
for it.

Examples:
  ragchat ask --file notes.txt "When is the review?"
  ragchat ask --json "Who owns the budget?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringP("file", "f", "", "Ingest this document before asking")
	askCmd.Flags().String("api-key", "", "Gemini API key")
	askCmd.Flags().Bool("json", false, "Print the answer as JSON")
	askCmd.Flags().Bool("show-context", false, "Print the retrieved context before the answer")
	needsSession(askCmd)
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	printStartupWarnings(cmd)

	file, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")
	showContext, _ := cmd.Flags().GetBool("show-context")

	if file != "" {
		id, err := ingestFile(cmd, file)
		if err != nil {
			return err
		}
		if !asJSON {
			cmd.PrintErrf("Ingested document %s\n", id)
		}
	}

	ctx := commandContext(cmd)
	question := strings.Join(args, " ")
	apiKey := configuredAPIKey(cmd)
	if apiKey == "" && strings.TrimSpace(question) != "" {
		// Do not ask for a secret the session would not get to use.
		if file == "" {
			if st, err := sessionService.Status(ctx); err == nil && st.Entries == 0 {
				return domain.ErrEmptyIndex
			}
		}
		apiKey = readSecret(cmd, "Gemini API key: ")
	}

	answer, err := sessionService.Ask(ctx, question, apiKey)
	if err != nil {
		return friendlyError(err)
	}

	if asJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("encode answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for _, w := range answer.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
	if showContext {
		cmd.Printf("Context (%s, score %.4f):\n%s\n\n", shortID(answer.SourceID), answer.Score, answer.Context)
	}
	cmd.Println(answer.Text)
	return nil
}

// resolveAPIKey returns the key from the flag, the environment, or a
// terminal prompt, in that order. An empty result is reported by the
// session as a missing key.
func resolveAPIKey(cmd *cobra.Command) string {
	if key := configuredAPIKey(cmd); key != "" {
		return key
	}
	return readSecret(cmd, "Gemini API key: ")
}

// configuredAPIKey returns the key from --api-key or the environment
// without prompting.
func configuredAPIKey(cmd *cobra.Command) string {
	if key, _ := cmd.Flags().GetString("api-key"); strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key)
	}
	return apiKeyFromEnv()
}

// readSecret prompts on stderr and reads a line without echo. It returns
// "" when stdin is not a terminal. Replaced in tests.
var readSecret = func(cmd *cobra.Command, prompt string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ""
	}
	cmd.PrintErr(prompt)
	secret, err := term.ReadPassword(fd)
	cmd.PrintErrln()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(secret))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
