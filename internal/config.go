package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// Generation / embedding provider settings
	Provider       string
	Model          string
	EmbeddingModel string
	GoogleAPIKey   string
	OpenAIAPIKey   string

	// Processing settings
	Languages         []string
	EmbeddingMode     string // "vector" or "corpus"
	CorpusName        string
	ChunkSize         int
	GenerationTimeout time.Duration

	// Q&A settings
	AnswerLanguage string
	ContextLimit   int
	TopK           int
	Prompt         string

	// Playlist pacing
	DelayMin time.Duration
	DelayMax time.Duration

	// Weaviate connection (corpus mode)
	WeaviateHost   string
	WeaviateScheme string
	WeaviateAPIKey string

	// Output settings
	Verbose bool
	Quiet   bool

	// Fixed XDG paths (not configurable except records_dir)
	ConfigDir  string
	DataDir    string
	CacheDir   string
	RecordsDir string

	// MCP settings
	MCPLogEnabled bool
}

//go:embed config.toml prompt.txt
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Printf("Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompt checks if a prompt.txt file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultPrompt(configDir string) error {
	return ensureDefaultFile(configDir, "prompt.txt", "prompt template")
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "vidrag")
	dataDir := filepath.Join(xdg.DataHome, "vidrag")
	cacheDir := filepath.Join(xdg.CacheHome, "vidrag")

	recordsDir := filepath.Join(dataDir, "records")

	v := viper.New()

	// Defaults for configurable settings
	v.SetDefault("provider", "gemini")
	v.SetDefault("model", "gemini-2.5-flash")
	v.SetDefault("embedding_model", "gemini-embedding-001")
	v.SetDefault("languages", []string{"tr", "en"})
	v.SetDefault("embedding_mode", "vector")
	v.SetDefault("corpus_name", "Video Library")
	v.SetDefault("chunk_size", 2000)
	v.SetDefault("generation_timeout", 2*time.Minute)
	v.SetDefault("answer_language", "Turkish")
	v.SetDefault("context_limit", 4000)
	v.SetDefault("top_k", 5)
	v.SetDefault("prompt", "") // if empty will use default prompt template
	v.SetDefault("delay_min", 5*time.Second)
	v.SetDefault("delay_max", 12*time.Second)
	v.SetDefault("weaviate_host", "localhost:8080")
	v.SetDefault("weaviate_scheme", "http")
	v.SetDefault("records_dir", recordsDir)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", false)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("VIDRAG")
	v.AutomaticEnv()

	// API keys are also read from their conventional env vars
	_ = v.BindEnv("google_api_key", "GOOGLE_API_KEY")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("weaviate_api_key", "WEAVIATE_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := &Config{
		Provider:       v.GetString("provider"),
		Model:          v.GetString("model"),
		EmbeddingModel: v.GetString("embedding_model"),
		GoogleAPIKey:   v.GetString("google_api_key"),
		OpenAIAPIKey:   v.GetString("openai_api_key"),

		Languages:         v.GetStringSlice("languages"),
		EmbeddingMode:     v.GetString("embedding_mode"),
		CorpusName:        v.GetString("corpus_name"),
		ChunkSize:         v.GetInt("chunk_size"),
		GenerationTimeout: v.GetDuration("generation_timeout"),

		AnswerLanguage: v.GetString("answer_language"),
		ContextLimit:   v.GetInt("context_limit"),
		TopK:           v.GetInt("top_k"),
		Prompt:         v.GetString("prompt"),

		DelayMin: v.GetDuration("delay_min"),
		DelayMax: v.GetDuration("delay_max"),

		WeaviateHost:   v.GetString("weaviate_host"),
		WeaviateScheme: v.GetString("weaviate_scheme"),
		WeaviateAPIKey: v.GetString("weaviate_api_key"),

		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),

		ConfigDir:  configDir,
		DataDir:    dataDir,
		CacheDir:   cacheDir,
		RecordsDir: v.GetString("records_dir"),

		MCPLogEnabled: v.GetBool("mcp_log"),
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

// ValidateCredentials checks that the API key required by the selected
// provider is present. Missing credentials fail fast before any work begins.
func (c *Config) ValidateCredentials() error {
	switch c.Provider {
	case "gemini":
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("Google API key is required - set it in config.toml or GOOGLE_API_KEY environment variable")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
		}
	default:
		return fmt.Errorf("unsupported provider: %s (supported: gemini, openai)", c.Provider)
	}
	return nil
}

// Embedding modes: local vector artifacts or the remote retrieval corpus
const (
	EmbeddingModeVector = "vector"
	EmbeddingModeCorpus = "corpus"
)

// ValidateEmbeddingMode checks the embedding_mode setting
func (c *Config) ValidateEmbeddingMode() error {
	switch c.EmbeddingMode {
	case EmbeddingModeVector, EmbeddingModeCorpus:
		return nil
	default:
		return fmt.Errorf("unsupported embedding mode: %s (supported: vector, corpus)", c.EmbeddingMode)
	}
}
