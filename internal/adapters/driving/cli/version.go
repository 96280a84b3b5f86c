package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/mcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) {
	if short, _ := cmd.Flags().GetBool("short"); short {
		cmd.Println(version)
		return
	}
	cmd.Printf("ragchat version %s\n", version)
	if rev := vcsRevision(); rev != "" {
		cmd.Printf("  commit:     %s\n", rev)
	}
	cmd.Printf("  go:         %s\n", runtime.Version())
	cmd.Printf("  mcp server: %s\n", mcp.Version)
}

// vcsRevision returns the abbreviated commit the binary was built from,
// if the toolchain recorded one.
var vcsRevision = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return shortID(s.Value)
		}
	}
	return ""
}
