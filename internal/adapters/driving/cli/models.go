package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available Gemini models",
	Long: `List the models the API key can use and mark the one ragchat selects
for answering questions.`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().String("api-key", "", "Gemini API key")
	needsSession(modelsCmd)
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	if modelSelector == nil {
		return errors.New("model selector not configured")
	}

	apiKey := resolveAPIKey(cmd)
	if apiKey == "" {
		return domain.ErrMissingAPIKey
	}

	ctx := commandContext(cmd)
	names, err := modelSelector.Available(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	selection := modelSelector.Select(ctx, apiKey)
	if len(names) == 0 {
		cmd.Println("No models listed.")
		cmd.Printf("Using default: %s\n", selection.Model)
		return nil
	}

	for _, name := range names {
		marker := "  "
		if domain.ModelDescriptor(name) == selection.Model {
			marker = "* "
		}
		cmd.Printf("%s%s\n", marker, name)
	}
	if selection.FellBack() {
		cmd.PrintErrf("Warning: %v\n", selection.Warning)
	}
	return nil
}
