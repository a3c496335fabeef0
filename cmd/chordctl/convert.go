package main

import (
	"encoding/json"
	"strings"

	"github.com/Conceptual-Machines/melody-api/internal/harmony"
	"github.com/Conceptual-Machines/melody-api/internal/services"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var opts harmony.Options

	cmd := &cobra.Command{
		Use:   "convert <chords...>",
		Short: "Convert a chord progression and print it as JSON",
		Example: `  chordctl convert "Am C F G"
  chordctl convert Dm Bb F C --capo 5
  chordctl convert "Am-C-F-G" --key "C major"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := harmony.Convert(strings.Join(args, " "), opts)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(services.NewConvertResponse(analysis))
		},
	}

	cmd.Flags().StringVarP(&opts.Key, "key", "k", "", `key to convert against, e.g. "A minor" or "F#m" (inferred when empty)`)
	cmd.Flags().IntVarP(&opts.Capo, "capo", "c", 0, "capo fret the chords were played at")
	return cmd
}
