package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddProcessingFlags adds flags controlling the incremental pipeline
func AddProcessingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("force-reembed", false, "Re-run embedding even when the video is already embedded")
	cmd.Flags().Bool("skip-embedding", false, "Extract and save the transcript only")
}

// AddModelFlags adds flags related to model selection and prompting
func AddModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "Generation model to use for answers")
	cmd.Flags().StringP("prompt", "p", "", "Custom prompt template (string or file path)")
	cmd.Flags().String("answer-lang", "", "Language for generated answers")
	cmd.Flags().String("mode", "", "Embedding mode override: vector or corpus")
}

// ProcessOptionsFromFlags reads the processing flags into options
func ProcessOptionsFromFlags(cmd *cobra.Command) (ProcessOptions, error) {
	force, err := cmd.Flags().GetBool("force-reembed")
	if err != nil {
		return ProcessOptions{}, fmt.Errorf("failed to get force-reembed flag: %w", err)
	}
	skip, err := cmd.Flags().GetBool("skip-embedding")
	if err != nil {
		return ProcessOptions{}, fmt.Errorf("failed to get skip-embedding flag: %w", err)
	}
	return ProcessOptions{ForceReembed: force, SkipEmbedding: skip}, nil
}

// HandlePromptFlag processes the --prompt flag to set a custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}
	if prompt == "" {
		return nil
	}

	app.prompts = NewPromptManager(app.config.ConfigDir, prompt)

	if app.config.Verbose {
		if IsLikelyFilePath(prompt) && FileExists(prompt) {
			fmt.Printf("Using custom prompt file: %s\n", prompt)
		} else {
			fmt.Printf("Using custom prompt string\n")
		}
	}

	return nil
}

// HandleModelFlag overrides the configured generation model, answer language
// and embedding mode from flags
func HandleModelFlag(cmd *cobra.Command, config *Config) error {
	model, err := cmd.Flags().GetString("model")
	if err != nil {
		return fmt.Errorf("failed to get model flag: %w", err)
	}
	if model != "" {
		config.Model = model
	}

	lang, err := cmd.Flags().GetString("answer-lang")
	if err != nil {
		return fmt.Errorf("failed to get answer-lang flag: %w", err)
	}
	if lang != "" {
		config.AnswerLanguage = lang
	}

	mode, err := cmd.Flags().GetString("mode")
	if err != nil {
		return fmt.Errorf("failed to get mode flag: %w", err)
	}
	if mode != "" {
		config.EmbeddingMode = mode
	}

	return nil
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}
