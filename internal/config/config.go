package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DocumentConfig locates the source document for the corpus index.
type DocumentConfig struct {
	Path string `yaml:"path"`
}

// ChunkerConfig configures how the document is split into passages.
// Overlap is a pointer because zero is a meaningful setting, distinct
// from absent.
type ChunkerConfig struct {
	ChunkSize int  `yaml:"chunk_size"`
	Overlap   *int `yaml:"overlap"`
}

// GeminiConfig holds connection details for the Gemini REST API.
type GeminiConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	Gemini *GeminiConfig `yaml:"gemini,omitempty"`
}

// GeneratorConfig configures the generative answer gateway.
type GeneratorConfig struct {
	Gemini *GeminiConfig `yaml:"gemini,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	Addr       string `yaml:"addr"`
	Collection string `yaml:"collection"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// SessionConfig bounds conversation history.
type SessionConfig struct {
	MaxTurns    int `yaml:"max_turns"`
	MaxSessions int `yaml:"max_sessions"`
}

// SummarizerConfig configures the corpus-overview summarizer.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	TopK int    `yaml:"top_k"`
}

// LoggingConfig selects log level and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Document    DocumentConfig    `yaml:"document"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Generator   GeneratorConfig   `yaml:"generator"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Sessions    SessionConfig     `yaml:"sessions"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
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

// LoadDefault tries ./config.yaml first, then ~/.config/infomate/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
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
	return filepath.Join(home, ".config", "infomate", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Document:    DocumentConfig{Path: "data/ICT_Department.pdf"},
		Chunker:     ChunkerConfig{ChunkSize: 1000},
		Embedder:    EmbedderConfig{Type: "gemini"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Sessions:    SessionConfig{MaxTurns: 20, MaxSessions: 1000},
		Summarizer:  SummarizerConfig{MaxSentences: 3},
		Server:      ServerConfig{Addr: ":8000", TopK: 5},
		Logging:     LoggingConfig{Level: "info", Format: "console"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Document.Path == "" {
		cfg.Document.Path = "data/ICT_Department.pdf"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.Overlap == nil {
		overlap := 200
		cfg.Chunker.Overlap = &overlap
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "gemini"
	}
	if cfg.Embedder.Type == "gemini" && cfg.Embedder.Gemini == nil {
		cfg.Embedder.Gemini = &GeminiConfig{}
	}
	if cfg.Embedder.Gemini != nil {
		applyGeminiDefaults(cfg.Embedder.Gemini, "text-embedding-004", 30)
	}
	if cfg.Generator.Gemini == nil {
		cfg.Generator.Gemini = &GeminiConfig{}
	}
	applyGeminiDefaults(cfg.Generator.Gemini, "gemini-1.5-flash", 60)
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant == nil {
		cfg.VectorStore.Qdrant = &QdrantConfig{Addr: "localhost:6334", Collection: "infomate"}
	}
	if cfg.Sessions.MaxTurns == 0 {
		cfg.Sessions.MaxTurns = 20
	}
	if cfg.Sessions.MaxSessions == 0 {
		cfg.Sessions.MaxSessions = 1000
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 3
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.TopK == 0 {
		cfg.Server.TopK = 5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func applyGeminiDefaults(g *GeminiConfig, model string, timeoutSecs int) {
	if g.APIKeyEnv == "" {
		g.APIKeyEnv = "GOOGLE_API_KEY"
	}
	if g.Model == "" {
		g.Model = model
	}
	if g.TimeoutSecs == 0 {
		g.TimeoutSecs = timeoutSecs
	}
}
