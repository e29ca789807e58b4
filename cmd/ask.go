package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ekoksal/vidrag/internal"
)

// askCmd answers questions from already processed videos
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask questions about processed videos",
	Long: `Answer a question from processed video content, or start the
interactive question loop when no question is given.

With --video the question is answered from that video's stored transcript.
Without it, corpus mode searches across every ingested video.`,
	Example: `  # One-off question across the corpus (corpus mode)
  vidrag ask "What is the main argument about inflation?"

  # Question about one specific video
  vidrag ask "What tools are recommended?" --video tAP1eZYEuKA

  # Interactive loop
  vidrag ask --video tAP1eZYEuKA`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleModelFlag(cmd, config); err != nil {
			return err
		}
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
		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		videoArg, _ := cmd.Flags().GetString("video")
		videoID := ""
		if videoArg != "" {
			_, videoID = app.Resolver().NormalizeArg(videoArg)
			if !internal.IsValidVideoID(videoID) {
				return fmt.Errorf("not a valid YouTube video: %s", videoArg)
			}
		}

		qa, err := app.QAForMode(videoID)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			return qa.Interactive(cmd.Context(), os.Stdin, app.UI())
		}

		answer, err := qa.Answer(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}

func init() {
	internal.AddModelFlags(askCmd)
	askCmd.Flags().String("video", "", "YouTube video URL or ID to scope the question to")
	rootCmd.AddCommand(askCmd)
}
