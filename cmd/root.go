package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ekoksal/vidrag/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vidrag [YouTube URL or ID]",
	Short: "Ask questions about YouTube videos",
	Long: `Vidrag extracts YouTube transcripts, embeds them, and answers
questions grounded on the video content.

Processing is incremental: already-extracted transcripts and existing
embeddings are reused, so running the same video or playlist twice is cheap.

Given a URL it processes the video (or every video in a playlist) and then
drops into an interactive question loop.`,
	Example: `  # Process a video and start asking questions
  vidrag "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  vidrag tAP1eZYEuKA

  # Process a whole playlist
  vidrag "https://www.youtube.com/playlist?list=PLote72xi9USAQ3328pkc9WrSJtcrcrDPF"

  # Use a specific model for answers
  vidrag tAP1eZYEuKA --model gemini-2.5-pro

  # Use a custom answer prompt
  vidrag tAP1eZYEuKA --prompt "Context: {{.Context}} Question: {{.Question}}"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := args[0]
		if internal.IsLikelyCommand(arg) {
			availableCommands := []string{"process", "ask", "list", "docs", "models", "mcp", "cp", "paths", "version", "help"}
			var suggestions []string
			for _, cmdName := range availableCommands {
				if strings.Contains(cmdName, arg) || (len(arg) <= len(cmdName) && strings.Contains(arg, cmdName[:len(arg)])) {
					suggestions = append(suggestions, cmdName)
				}
			}

			if len(suggestions) > 0 {
				return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Did you mean: %s?", arg, strings.Join(suggestions, ", "))
			}
			return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Use --help to see available commands", arg)
		}

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

		opts, err := internal.ProcessOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		videoID, err := app.ProcessArg(cmd.Context(), arg, opts)
		if err != nil {
			return err
		}

		// A playlist in vector mode leaves no single transcript to ask
		// about; corpus mode can answer across all of them
		if videoID == "" && config.EmbeddingMode != internal.EmbeddingModeCorpus {
			app.UI().Printf("Playlist processed. Use 'vidrag ask --video <id>' to ask about a video.\n")
			return nil
		}

		qa, err := app.QAForMode(videoID)
		if err != nil {
			return err
		}
		return qa.Interactive(cmd.Context(), os.Stdin, app.UI())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir, config.RecordsDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Ensure default prompt exists in XDG config directory
	if err := internal.EnsureDefaultPrompt(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default prompt: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Shutting down...")
		cancel()
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddProcessingFlags(rootCmd)
	internal.AddModelFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress status output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/vidrag/config.toml)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}
