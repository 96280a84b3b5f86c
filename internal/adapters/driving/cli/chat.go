package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:     "chat",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive chat",
	Long: `Launch the interactive terminal chat.

Enter a Gemini API key, upload a document by path, then ask questions about
it. The key field is pre-filled from GEMINI_API_KEY or GOOGLE_API_KEY.

Controls:
  Tab/Shift+Tab - Move between fields
  Enter         - Upload / Ask
  Ctrl+R        - Reset the session
  PgUp/PgDn     - Scroll the answer
  F1            - Toggle help
  Esc, Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	needsSession(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("chat crashed: %v", r)
		}
	}()

	if err := requireSession(); err != nil {
		return err
	}
	printStartupWarnings(cmd)

	ctx := commandContext(cmd)
	ports := &tui.Ports{
		Session:      sessionService,
		APIKey:       apiKeyFromEnv(),
		PromptEvents: watchPrompts(ctx),
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
