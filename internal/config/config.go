package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP API listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// EmbedderConfig configures the OpenAI-compatible embeddings endpoint.
// The same model must be used when building the knowledge base and when
// embedding queries.
type EmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimension   int    `yaml:"dimension"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// LLMConfig configures the chat-completion endpoint used to generate
// answers.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
}

// BoltConfig contains settings for the on-disk bbolt vector store.
type BoltConfig struct {
	Path string `yaml:"path"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type       string        `yaml:"type"`
	Collection string        `yaml:"collection"`
	Bolt       *BoltConfig   `yaml:"bolt,omitempty"`
	Qdrant     *QdrantConfig `yaml:"qdrant,omitempty"`
}

// RetrievalConfig holds query-time retrieval settings.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	LLM         LLMConfig         `yaml:"llm"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
}

// APIKey resolves the embedder credential from the environment. Local
// Ollama ignores the value, so a placeholder is substituted when unset.
func (c EmbedderConfig) APIKey() string { return keyFromEnv(c.APIKeyEnv) }

// APIKey resolves the LLM credential from the environment, with the same
// placeholder behavior as the embedder.
func (c LLMConfig) APIKey() string { return keyFromEnv(c.APIKeyEnv) }

func keyFromEnv(env string) string {
	if key := os.Getenv(env); key != "" {
		return key
	}
	return "ollama"
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/faqbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/faqbot/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "faqbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Server: ServerConfig{Addr: ":8000"},
		Embedder: EmbedderConfig{
			Model:     "all-minilm",
			Dimension: 384,
		},
		LLM: LLMConfig{
			Model:       "koesn/llama3-8b-instruct:latest",
			Temperature: 0.3,
		},
		VectorStore: VectorStoreConfig{
			Type:       "bolt",
			Collection: "faq_collection",
			Bolt:       &BoltConfig{Path: filepath.Join("knowledge_base", "vector_store.db")},
		},
		Retrieval: RetrievalConfig{TopK: 3},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = ollamaBaseURL()
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = "OLLAMA_API_KEY"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "all-minilm"
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = 32
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = ollamaBaseURL()
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OLLAMA_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "koesn/llama3-8b-instruct:latest"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "bolt"
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "faq_collection"
	}
	if cfg.VectorStore.Type == "bolt" && cfg.VectorStore.Bolt == nil {
		cfg.VectorStore.Bolt = &BoltConfig{Path: filepath.Join("knowledge_base", "vector_store.db")}
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
}

// ollamaBaseURL honors the OLLAMA_BASE_URL environment variable so the
// endpoint can be moved without editing the config file.
func ollamaBaseURL() string {
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:11434/v1"
}
