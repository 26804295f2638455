package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Restaurant holds the read-only restaurant facts used by the info and
// chat handlers and by the booking capacity gate.
type Restaurant struct {
	Name      string   `yaml:"name"`
	Hours     string   `yaml:"hours"`
	Location  string   `yaml:"location"`
	Phone     string   `yaml:"phone"`
	MaxGuests int      `yaml:"max_guests"`
	Policies  []string `yaml:"policies"`
}

// Config is the full application configuration, read from environment
// variables with an optional restaurant YAML file.
type Config struct {
	Port string

	Restaurant Restaurant

	// Conversation engine
	HistoryLimit      int
	GenerationTimeout time.Duration

	// RAG pipeline
	ChunkSize    int // words per chunk
	ChunkOverlap int // words repeated from the previous chunk
	TopK         int

	// Embedding backend: "tfidf" (in-process) or "remote"
	EmbedderType    string
	EmbedderBaseURL string
	EmbedderModel   string
	EmbedderAPIKey  string

	// Generation backend (Ollama-compatible)
	GenerationBaseURL string
	GenerationModel   string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Load reads the configuration from the environment, applying defaults
// for anything unset.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		Restaurant: defaultRestaurant(),

		HistoryLimit:      getIntEnv("HISTORY_LIMIT", 40),
		GenerationTimeout: time.Duration(getIntEnv("GENERATION_TIMEOUT_SECS", 10)) * time.Second,

		ChunkSize:    getIntEnv("CHUNK_SIZE_WORDS", 60),
		ChunkOverlap: getIntEnv("CHUNK_OVERLAP_WORDS", 12),
		TopK:         getIntEnv("RETRIEVAL_TOP_K", 3),

		EmbedderType:    getEnv("EMBEDDER_TYPE", "tfidf"),
		EmbedderBaseURL: getEnv("EMBEDDER_BASE_URL", "http://localhost:11434"),
		EmbedderModel:   getEnv("EMBEDDER_MODEL", "nomic-embed-text"),
		EmbedderAPIKey:  os.Getenv("EMBEDDER_API_KEY"),

		GenerationBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		GenerationModel:   getEnv("OLLAMA_MODEL", "mistral:7b"),
	}

	if path := getEnv("RESTAURANT_CONFIG", "restaurant.yaml"); path != "" {
		if r, err := loadRestaurant(path); err == nil {
			cfg.Restaurant = *r
		}
	}

	if v := getIntEnv("MAX_GUESTS", 0); v > 0 {
		cfg.Restaurant.MaxGuests = v
	}

	return cfg
}

// loadRestaurant reads the restaurant facts from a YAML file. A missing
// file is not an error; defaults apply.
func loadRestaurant(path string) (*Restaurant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r := defaultRestaurant()
			return &r, nil
		}
		return nil, err
	}
	r := defaultRestaurant()
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.MaxGuests <= 0 {
		r.MaxGuests = defaultRestaurant().MaxGuests
	}
	return &r, nil
}

func defaultRestaurant() Restaurant {
	return Restaurant{
		Name:      "Bella Vista",
		Hours:     "Mon-Thu 11:30AM-10PM, Fri-Sat 11:30AM-11PM, Closed Sundays",
		Location:  "15 Rue de la Paix, Luxembourg City",
		Phone:     "+352 12 34 56 78",
		MaxGuests: 12,
		Policies: []string{
			"Large groups (7+) please call ahead",
			"Tables are held for 15 minutes past the reservation time",
		},
	}
}
