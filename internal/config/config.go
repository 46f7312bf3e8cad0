package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CorpusConfig locates the policy documents to ingest.
type CorpusConfig struct {
	Dir string `yaml:"dir"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
// The API key itself is never stored in the file; only the name of the
// environment variable holding it.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// EmbedderConfig configures the embedding gateway.
type EmbedderConfig struct {
	OpenAI OpenAIEmbedderConfig `yaml:"openai"`
}

// ChromaConfig contains connection details for the Chroma vector index.
type ChromaConfig struct {
	URL         string `yaml:"url"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IndexConfig configures the vector index.
type IndexConfig struct {
	Chroma ChromaConfig `yaml:"chroma"`
}

// AppConfig is the root application configuration structure. None of these
// settings change chunking behaviour; they only select which external
// collaborators are used.
type AppConfig struct {
	Corpus   CorpusConfig   `yaml:"corpus"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Index    IndexConfig    `yaml:"index"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults. Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/policyrag/config.yaml.
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
	applyEnvOverrides(cfg)
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
	return filepath.Join(home, ".config", "policyrag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Corpus: CorpusConfig{Dir: "policies"},
		Embedder: EmbedderConfig{
			OpenAI: OpenAIEmbedderConfig{
				BaseURL:     "https://api.openai.com/v1",
				APIKeyEnv:   "OPENAI_API_KEY",
				Model:       "text-embedding-3-small",
				TimeoutSecs: 30,
				BatchSize:   100,
			},
		},
		Index: IndexConfig{
			Chroma: ChromaConfig{
				URL:         "http://localhost:8000",
				Collection:  "policies",
				TimeoutSecs: 15,
			},
		},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = "policies"
	}
	if cfg.Embedder.OpenAI.BaseURL == "" {
		cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedder.OpenAI.APIKeyEnv == "" {
		cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.OpenAI.Model == "" {
		cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
		cfg.Embedder.OpenAI.TimeoutSecs = 30
	}
	if cfg.Embedder.OpenAI.BatchSize == 0 {
		cfg.Embedder.OpenAI.BatchSize = 100
	}
	if cfg.Index.Chroma.URL == "" {
		cfg.Index.Chroma.URL = "http://localhost:8000"
	}
	if cfg.Index.Chroma.Collection == "" {
		cfg.Index.Chroma.Collection = "policies"
	}
	if cfg.Index.Chroma.TimeoutSecs == 0 {
		cfg.Index.Chroma.TimeoutSecs = 15
	}
}

// applyEnvOverrides lets the environment (usually via .env) take precedence
// over the file for the settings operators most often vary per deployment.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("POLICY_DATA_DIR"); v != "" {
		cfg.Corpus.Dir = v
	}
	if v := os.Getenv("CHROMA_URL"); v != "" {
		cfg.Index.Chroma.URL = v
	}
	if v := os.Getenv("CHROMA_COLLECTION"); v != "" {
		cfg.Index.Chroma.Collection = v
	}
	if v := os.Getenv("EMBED_MODEL"); v != "" {
		cfg.Embedder.OpenAI.Model = v
	}
}
