package cli

import (
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE",
	Short: "Index a text document",
	Long: `Read a text document and add it to the index. Use - to read from stdin.

With the default in-memory index the document lives only as long as the
process; use 'ragchat ask --file' or 'ragchat chat', or configure the sqlite
or pgvector index backend to keep it between runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	needsSession(ingestCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	printStartupWarnings(cmd)

	id, err := ingestFile(cmd, args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Ingested document %s\n", id)
	return nil
}

// ingestFile decodes path (or stdin for "-") and adds it to the session.
func ingestFile(cmd *cobra.Command, path string) (string, error) {
	var (
		text string
		err  error
	)
	if path == "-" {
		text, err = textReader.Read(cmd.InOrStdin(), path)
	} else {
		text, err = textReader.ReadFile(path)
	}
	if err != nil {
		return "", err
	}

	doc, err := sessionService.Ingest(commandContext(cmd), text)
	if err != nil {
		return "", friendlyError(err)
	}
	return doc.ID, nil
}
