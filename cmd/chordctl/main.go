// Command chordctl converts chord progressions and loads scraped tabs into
// the song database.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chordctl",
		Short:         "Chord progression tools",
		Long:          `Converts chord progressions to Roman numerals and reference-key forms, and ingests scraped tabs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConvertCmd(), newIngestCmd())
	return root
}
