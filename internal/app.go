package internal

import (
	"context"
	"fmt"
	"os"
)

// App holds the application state and dependencies
type App struct {
	config   *Config
	store    *TranscriptStore
	resolver *Resolver
	fetcher  TranscriptFetcher
	ai       *AI
	embedder EmbeddingClient
	models   ModelLister
	prompts  *PromptManager
	ui       UIManager

	corpus *CorpusClient
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) (*App, error) {
	generator, err := NewGenerationClient(config)
	if err != nil {
		return nil, err
	}

	// Embeddings always go through Gemini, independent of the generation
	// provider
	gemini := NewGeminiClient(config.GoogleAPIKey, config.Model, config.EmbeddingModel)

	app := &App{
		config:   config,
		store:    NewTranscriptStore(config.RecordsDir, config.Verbose),
		resolver: NewResolver(config.Verbose),
		fetcher:  NewCaptionFetcher(config.CacheDir, config.Verbose),
		ai:       NewAI(generator, config.GenerationTimeout, config.Verbose),
		embedder: gemini,
		models:   gemini,
		prompts:  NewPromptManager(config.ConfigDir, config.Prompt),
		ui:       NewUIManager(config.Verbose, config.Quiet),
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app, nil
}

// AppOption customizes App creation
type AppOption func(*App)

// WithFetcher sets a custom transcript fetcher
func WithFetcher(fetcher TranscriptFetcher) AppOption {
	return func(a *App) {
		a.fetcher = fetcher
	}
}

// WithAI sets a custom AI processor
func WithAI(ai *AI) AppOption {
	return func(a *App) {
		a.ai = ai
	}
}

// WithEmbedder sets a custom embedding client
func WithEmbedder(embedder EmbeddingClient) AppOption {
	return func(a *App) {
		a.embedder = embedder
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// Store exposes the transcript store to commands
func (app *App) Store() *TranscriptStore {
	return app.store
}

// Resolver exposes the URL resolver to commands
func (app *App) Resolver() *Resolver {
	return app.resolver
}

// UI exposes the UI manager to commands
func (app *App) UI() UIManager {
	return app.ui
}

// Corpus returns the retrieval corpus client, creating it on first use
func (app *App) Corpus() (*CorpusClient, error) {
	if app.corpus != nil {
		return app.corpus, nil
	}

	corpus, err := NewCorpusClient(app.config, app.embedder)
	if err != nil {
		return nil, err
	}
	app.corpus = corpus
	return corpus, nil
}

// Ingestor builds the ingestion strategy for the configured embedding mode
func (app *App) Ingestor() (Ingestor, error) {
	switch app.config.EmbeddingMode {
	case EmbeddingModeCorpus:
		corpus, err := app.Corpus()
		if err != nil {
			return nil, err
		}
		return NewCorpusIngestor(corpus, app.config.CorpusName, app.config.ChunkSize, app.config.Verbose), nil
	default:
		return NewVectorIngestor(app.embedder, app.store, app.config.Verbose), nil
	}
}

// Engine builds the incremental processing engine
func (app *App) Engine() (*Engine, error) {
	ingestor, err := app.Ingestor()
	if err != nil {
		return nil, err
	}
	return NewEngine(app.store, app.fetcher, ingestor, app.config.Languages, app.config.Verbose), nil
}

// ProcessArg processes a video or playlist argument and returns the video ID
// when the argument named a single video (empty for playlists)
func (app *App) ProcessArg(ctx context.Context, arg string, opts ProcessOptions) (string, error) {
	engine, err := app.Engine()
	if err != nil {
		return "", err
	}

	url, id := app.resolver.NormalizeArg(arg)
	if IsValidPlaylistID(id) {
		batch := NewBatchProcessor(app.resolver, engine, app.ui,
			app.config.DelayMin, app.config.DelayMax, app.config.Verbose)
		result, err := batch.ProcessPlaylist(ctx, id, opts)
		if err != nil {
			return "", err
		}
		for _, failure := range result.Failed {
			app.ui.Verbose("Failed %s: %v\n", failure.VideoID, failure.Err)
		}
		return "", nil
	}

	if !IsValidVideoID(id) {
		return "", fmt.Errorf("not a valid YouTube video or playlist: %s", arg)
	}

	result, err := engine.Process(ctx, id, url, "", opts)
	if err != nil {
		return "", err
	}

	switch {
	case result.AlreadyProcessed:
		app.ui.Printf("Already processed: %s\n", recordLabel(result.Record))
	case result.EmbeddingSkipped:
		app.ui.Printf("Transcript saved (embedding skipped): %s\n", recordLabel(result.Record))
	case result.EmbeddingErr != nil:
		app.ui.Warnf("Warning: transcript saved but embedding failed: %v\n", result.EmbeddingErr)
	default:
		app.ui.Printf("Processed: %s\n", recordLabel(result.Record))
	}
	return id, nil
}

func recordLabel(record *VideoRecord) string {
	if record == nil {
		return ""
	}
	if record.Title != "" && record.Title != UnknownTitle {
		return fmt.Sprintf("%s (%s)", record.Title, record.VideoID)
	}
	return record.VideoID
}

// QAForVideo answers questions from one stored transcript
func (app *App) QAForVideo(videoID string) *QA {
	source := NewDirectContext(app.store, videoID, app.config.ContextLimit)
	return NewQA(app.ai, app.prompts, source, app.config.AnswerLanguage, app.config.Verbose)
}

// QAForCorpus answers questions from the whole retrieval corpus
func (app *App) QAForCorpus() (*QA, error) {
	corpus, err := app.Corpus()
	if err != nil {
		return nil, err
	}
	source := NewCorpusContext(corpus, app.config.CorpusName, app.config.TopK)
	return NewQA(app.ai, app.prompts, source, app.config.AnswerLanguage, app.config.Verbose), nil
}

// QAForMode picks the question source matching the embedding mode. A video
// ID is required in vector mode and optional in corpus mode.
func (app *App) QAForMode(videoID string) (*QA, error) {
	if app.config.EmbeddingMode == EmbeddingModeCorpus && videoID == "" {
		return app.QAForCorpus()
	}
	if videoID == "" {
		return nil, fmt.Errorf("a video URL or ID is required in %s mode", app.config.EmbeddingMode)
	}
	return app.QAForVideo(videoID), nil
}

// ListVideos returns all stored records
func (app *App) ListVideos() ([]*VideoRecord, error) {
	return app.store.List()
}

// ListModels returns the generation models available to the configured key
func (app *App) ListModels(ctx context.Context) ([]ModelInfo, error) {
	return app.models.ListModels(ctx)
}

// Warnf reports a non-fatal problem
func (app *App) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}
