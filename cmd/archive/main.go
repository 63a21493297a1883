package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "archive [flags] URL...",
		Short: "Archive web pages to a local directory",
		Long: `archive downloads each URL once and stores it below the archive
directory as scheme/host/path, using index.html for directory-like paths.

Every flag can also be set with an ARCHIVE_ environment variable
(ARCHIVE_DIR, ARCHIVE_LIMIT, ARCHIVE_USER_AGENT, ...) or in a YAML
file passed with --config.`,
		Version:      version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         runArchive,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	addFlags(rootCmd.Flags())
}
