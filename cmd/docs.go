package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekoksal/vidrag/internal"
)

// docsCmd groups the corpus document commands
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage documents in the retrieval corpus",
	Long: `Inspect and manage the documents stored in the retrieval corpus.

Only meaningful in corpus embedding mode; each processed video becomes one
document holding its transcript chunks.`,
}

// docsListCmd lists the documents in the corpus
var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List corpus documents",
	Example: `  # Show all documents in the corpus
  vidrag docs list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		corpus, err := app.Corpus()
		if err != nil {
			return err
		}

		name, err := corpus.GetOrCreateCorpus(cmd.Context(), config.CorpusName)
		if err != nil {
			return err
		}

		docs, err := corpus.ListDocuments(cmd.Context(), name)
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			fmt.Println("No documents in the corpus.")
			return nil
		}

		for _, doc := range docs {
			fmt.Printf("%s  %s\n", doc.VideoID, doc.DisplayName)
		}
		return nil
	},
}

// docsDeleteCmd removes a document and its chunks from the corpus
var docsDeleteCmd = &cobra.Command{
	Use:   "delete [video ID or document name]",
	Short: "Delete a corpus document",
	Example: `  # Delete the document for a video
  vidrag docs delete tAP1eZYEuKA`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		corpus, err := app.Corpus()
		if err != nil {
			return err
		}

		name, err := corpus.GetOrCreateCorpus(cmd.Context(), config.CorpusName)
		if err != nil {
			return err
		}

		found, err := corpus.DeleteDocument(cmd.Context(), name, args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no document found for %s", args[0])
		}

		if !config.Quiet {
			fmt.Printf("Deleted document for %s\n", args[0])
		}
		return nil
	},
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}
