// Package config loads runtime configuration from the TOML config
// file, .env files, and environment variables. Precedence, lowest to
// highest: built-in defaults, config.toml, environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Default values applied before any file or environment override.
const (
	DefaultCatalogTable   = "reports_lyd"
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultChatModel      = "gpt-4o"
	DefaultOptimizerModel = "gpt-4o-mini"
	DefaultRerankModel    = "rerank-v3.5"

	DefaultChunkSize    = 400
	DefaultChunkOverlap = 50

	DefaultRetrievalLimit = 15
	DefaultMinSimilarity  = 0.4
	DefaultRerankTopN     = 7

	DefaultBatchSize   = 20
	DefaultBatchDelay  = 5 * time.Second
	DefaultItemTimeout = 2 * time.Minute
)

// Config holds all runtime configuration.
type Config struct {
	// DataDir is where the local vector database lives. Empty means
	// ~/.ragcli/data.
	DataDir string `toml:"data_dir"`

	Supabase  SupabaseConfig  `toml:"supabase"`
	OpenAI    OpenAIConfig    `toml:"openai"`
	Cohere    CohereConfig    `toml:"cohere"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Ingest    IngestConfig    `toml:"ingest"`
}

// SupabaseConfig holds the report catalogue and storage credentials.
type SupabaseConfig struct {
	URL        string `toml:"url"`
	ServiceKey string `toml:"service_key"`
	Table      string `toml:"table"`
}

// OpenAIConfig holds embedding and chat model settings.
type OpenAIConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	EmbeddingModel string `toml:"embedding_model"`
	ChatModel      string `toml:"chat_model"`
	OptimizerModel string `toml:"optimizer_model"`
}

// CohereConfig holds reranking settings.
type CohereConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// ChunkingConfig holds text splitting settings.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig holds similarity search settings.
type RetrievalConfig struct {
	Limit         int     `toml:"limit"`
	MinSimilarity float64 `toml:"min_similarity"`
	RerankTopN    int     `toml:"rerank_top_n"`
}

// IngestConfig holds batch ingestion settings.
type IngestConfig struct {
	BatchSize      int           `toml:"batch_size"`
	Delay          time.Duration `toml:"delay"`
	ItemTimeout    time.Duration `toml:"item_timeout"`
	MockEmbeddings bool          `toml:"mock_embeddings"`
}

// Load reads configuration from configDir/config.toml (if present),
// .env files in the working directory, and the environment. An empty
// configDir defaults to ~/.ragcli.
func Load(configDir string) (*Config, error) {
	// .env.local wins over .env, both lose to real environment
	_ = godotenv.Load(".env.local", ".env")

	cfg := defaults()

	if configDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configDir = filepath.Join(home, ".ragcli")
		}
	}
	if configDir != "" {
		path := filepath.Join(configDir, "config.toml")
		data, err := os.ReadFile(path)
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(cfg)
	fillZeroes(cfg)
	return cfg, nil
}

// defaults returns a Config with every tunable at its built-in value.
func defaults() *Config {
	return &Config{
		Supabase: SupabaseConfig{
			Table: DefaultCatalogTable,
		},
		OpenAI: OpenAIConfig{
			EmbeddingModel: DefaultEmbeddingModel,
			ChatModel:      DefaultChatModel,
			OptimizerModel: DefaultOptimizerModel,
		},
		Cohere: CohereConfig{
			Model: DefaultRerankModel,
		},
		Chunking: ChunkingConfig{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			Limit:         DefaultRetrievalLimit,
			MinSimilarity: DefaultMinSimilarity,
			RerankTopN:    DefaultRerankTopN,
		},
		Ingest: IngestConfig{
			BatchSize:   DefaultBatchSize,
			Delay:       DefaultBatchDelay,
			ItemTimeout: DefaultItemTimeout,
		},
	}
}

// applyEnv overlays environment variables onto the config.
func applyEnv(cfg *Config) {
	setString(&cfg.Supabase.URL, "SUPABASE_URL")
	setString(&cfg.Supabase.ServiceKey, "SUPABASE_SERVICE_ROLE_KEY")
	setString(&cfg.Supabase.Table, "SUPABASE_TABLE")
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.Cohere.APIKey, "COHERE_API_KEY")
	setString(&cfg.DataDir, "RAGCLI_DATA_DIR")

	if v, ok := os.LookupEnv("RAGCLI_MOCK_EMBEDDINGS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Ingest.MockEmbeddings = b
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// fillZeroes restores defaults a config file explicitly zeroed.
func fillZeroes(cfg *Config) {
	base := defaults()
	if cfg.Supabase.Table == "" {
		cfg.Supabase.Table = base.Supabase.Table
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = base.OpenAI.EmbeddingModel
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = base.OpenAI.ChatModel
	}
	if cfg.OpenAI.OptimizerModel == "" {
		cfg.OpenAI.OptimizerModel = base.OpenAI.OptimizerModel
	}
	if cfg.Cohere.Model == "" {
		cfg.Cohere.Model = base.Cohere.Model
	}
	if cfg.Chunking.Size <= 0 {
		cfg.Chunking.Size = base.Chunking.Size
	}
	if cfg.Chunking.Overlap < 0 {
		cfg.Chunking.Overlap = base.Chunking.Overlap
	}
	if cfg.Retrieval.Limit <= 0 {
		cfg.Retrieval.Limit = base.Retrieval.Limit
	}
	if cfg.Retrieval.MinSimilarity <= 0 {
		cfg.Retrieval.MinSimilarity = base.Retrieval.MinSimilarity
	}
	if cfg.Retrieval.RerankTopN <= 0 {
		cfg.Retrieval.RerankTopN = base.Retrieval.RerankTopN
	}
	if cfg.Ingest.BatchSize <= 0 {
		cfg.Ingest.BatchSize = base.Ingest.BatchSize
	}
	if cfg.Ingest.Delay <= 0 {
		cfg.Ingest.Delay = base.Ingest.Delay
	}
	if cfg.Ingest.ItemTimeout <= 0 {
		cfg.Ingest.ItemTimeout = base.Ingest.ItemTimeout
	}
}
