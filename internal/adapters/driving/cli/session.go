package cli

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the index holds",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Empty the index",
	Long: `Remove every entry from the index so a new document can be ingested.
Only useful with a persistent index backend (sqlite or pgvector).`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	needsSession(statusCmd)
	needsSession(resetCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	status, err := sessionService.Status(commandContext(cmd))
	if err != nil {
		return err
	}

	cmd.Println("Session")
	cmd.Println("=======")
	cmd.Printf("  Entries:    %d\n", status.Entries)
	if status.DocumentID != "" {
		cmd.Printf("  Document:   %s\n", status.DocumentID)
	}
	cmd.Printf("  Policy:     %s\n", status.Policy.Description())
	cmd.Printf("  Embeddings: %s (%d dimensions)\n", status.EmbeddingModel, status.Dimensions)
	return nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	if err := sessionService.Reset(commandContext(cmd)); err != nil {
		return err
	}
	cmd.Println("Index cleared.")
	return nil
}
