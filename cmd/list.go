package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ekoksal/vidrag/internal"
)

// listCmd shows every stored video record and its processing status
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed videos and their status",
	Example: `  # Show all processed videos
  vidrag list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := internal.NewTranscriptStore(config.RecordsDir, config.Verbose)
		records, err := store.List()
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No videos processed yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VIDEO ID\tTITLE\tTRANSCRIPT\tEMBEDDED\tLAST EMBEDDED")
		for _, record := range records {
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
				record.VideoID, record.Title,
				record.Status.TranscriptExtracted, record.Status.Embedded,
				record.Status.LastEmbedded)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
