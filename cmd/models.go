package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekoksal/vidrag/internal"
)

// modelsCmd lists the generation models available to the configured key
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available generation models",
	Example: `  # Show models usable for answers
  vidrag models`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.GoogleAPIKey == "" {
			return fmt.Errorf("Google API key is required - set it in config.toml or GOOGLE_API_KEY environment variable")
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}

		models, err := app.ListModels(cmd.Context())
		if err != nil {
			return err
		}

		for _, model := range models {
			if model.DisplayName != "" {
				fmt.Printf("%s - %s\n", model.Name, model.DisplayName)
			} else {
				fmt.Println(model.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
