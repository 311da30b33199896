package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DatasetConfig describes one dashboard tab backed by a CSV file.
type DatasetConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	Description string `yaml:"description"`
	Analytics   bool   `yaml:"analytics"`
}

type Config struct {
	Port          int           `envconfig:"PORT" default:"5000"`
	AllowedOrigin string        `envconfig:"ALLOWED_ORIGIN" default:"http://localhost:5173"`
	DataDir       string        `envconfig:"DATA_DIR" default:"public"`
	DatasetsFile  string        `envconfig:"DATASETS_FILE" default:"datasets.yaml"`
	PageSize      int           `envconfig:"PAGE_SIZE" default:"25"`
	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile       string        `envconfig:"LOG_FILE"`

	OpenAIKey     string  `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string  `envconfig:"OPENAI_BASE_URL"`
	Model         string  `envconfig:"AI_MODEL" default:"gpt-3.5-turbo"`
	Temperature   float64 `envconfig:"AI_TEMPERATURE" default:"0.7"`

	Datasets []DatasetConfig `ignored:"true"`
}

const envPrefix = "DASHBOARD"

const foreclosureExport = "Law Database/Search-Dockets-Attorneys-Table-1-Default-view-export-1755808906060.csv"

// DefaultDatasets are the tabs used when no datasets file exists.
var DefaultDatasets = []DatasetConfig{
	{
		ID:          "cases",
		Name:        "All Foreclosure Cases (200)",
		Path:        foreclosureExport,
		Description: "Complete database of New York State foreclosure cases with detailed information on case duration, legal representatives, and efficiency opportunities.",
	},
	{
		ID:          "analytics",
		Name:        "Case Analytics",
		Path:        foreclosureExport,
		Description: "Visual analytics and insights into case patterns, duration trends, and court performance across New York State counties.",
		Analytics:   true,
	},
}

var (
	config *Config
	once   sync.Once
)

// GetConfig возвращает singleton экземпляр конфигурации
func GetConfig() *Config {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		config = cfg
	})
	return config
}

// Load reads .env (if present), the DASHBOARD_* environment and the datasets file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	datasets, err := LoadDatasets(cfg.DatasetsFile)
	if err != nil {
		return nil, err
	}
	cfg.Datasets = datasets

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadDatasets reads the tab list from a YAML file. A missing file yields DefaultDatasets.
func LoadDatasets(path string) ([]DatasetConfig, error) {
	if path == "" {
		return DefaultDatasets, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultDatasets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read datasets file: %w", err)
	}

	var file struct {
		Datasets []DatasetConfig `yaml:"datasets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse datasets file %s: %w", path, err)
	}
	return file.Datasets, nil
}

func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if len(c.Datasets) == 0 {
		return errors.New("no datasets configured")
	}
	seen := make(map[string]bool, len(c.Datasets))
	for i, ds := range c.Datasets {
		if ds.ID == "" || ds.Path == "" {
			return fmt.Errorf("dataset %d: id and path are required", i)
		}
		if seen[ds.ID] {
			return fmt.Errorf("dataset %q declared twice", ds.ID)
		}
		seen[ds.ID] = true
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
