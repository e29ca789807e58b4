package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/ekoksal/vidrag/internal"
)

// cpCmd copies a stored transcript to the system clipboard
var cpCmd = &cobra.Command{
	Use:   "cp [YouTube URL or ID]",
	Short: "Copy a stored transcript to the clipboard",
	Example: `  # Copy the transcript of a processed video
  vidrag cp tAP1eZYEuKA
  vidrag cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := internal.NewResolver(config.Verbose)
		_, videoID := resolver.NormalizeArg(args[0])
		if !internal.IsValidVideoID(videoID) {
			return fmt.Errorf("not a valid YouTube video: %s", args[0])
		}

		store := internal.NewTranscriptStore(config.RecordsDir, config.Verbose)
		record, err := store.Load(videoID)
		if err != nil {
			return err
		}
		if record == nil || record.Transcript == "" {
			return fmt.Errorf("no transcript stored for %s - run 'vidrag process %s' first", videoID, videoID)
		}

		if err := clipboard.WriteAll(record.Transcript); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Transcript copied to clipboard")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
