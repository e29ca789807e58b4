package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ekoksal/vidrag/internal"
)

// processCmd runs the incremental pipeline without the question loop
var processCmd = &cobra.Command{
	Use:   "process [YouTube URL or ID]",
	Short: "Extract and embed transcripts without asking questions",
	Long: `Process a video or playlist and stop.

Each video goes through the incremental pipeline: the transcript is
extracted (or reused when already stored) and then embedded (or skipped
when already embedded). Use this to batch-load a playlist before asking
questions later with 'vidrag ask'.`,
	Example: `  # Process a single video
  vidrag process tAP1eZYEuKA

  # Process a playlist, transcripts only
  vidrag process "https://www.youtube.com/playlist?list=PLote72xi9USAQ3328pkc9WrSJtcrcrDPF" --skip-embedding

  # Refresh the embeddings of an already processed video
  vidrag process tAP1eZYEuKA --force-reembed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateCredentials(); err != nil {
			return err
		}
		if err := config.ValidateEmbeddingMode(); err != nil {
			return err
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}

		opts, err := internal.ProcessOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		_, err = app.ProcessArg(cmd.Context(), args[0], opts)
		return err
	},
}

func init() {
	internal.AddProcessingFlags(processCmd)
	rootCmd.AddCommand(processCmd)
}
