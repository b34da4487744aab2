package mind

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/playhaven-ai/mind-go-sdk/core"
)

// Config holds everything needed to create a mind.
type Config struct {
	// EntityID is the mind's entity in the simulation.
	EntityID string `yaml:"entity_id" json:"entity_id"`

	// Traits are the character's personality traits.
	Traits []string `yaml:"traits" json:"traits"`

	// InitialWorkingMemory seeds working memory; nil starts empty.
	InitialWorkingMemory *core.WorkingMemory `yaml:"initial_working_memory" json:"initial_working_memory,omitempty"`

	// InitialLongTermMemories are seeded into the store at creation
	// with a neutral importance.
	InitialLongTermMemories []string `yaml:"initial_long_term_memories" json:"initial_long_term_memories,omitempty"`
}

// Validate rejects configs that cannot produce a working mind.
func (c Config) Validate() error {
	if c.EntityID == "" {
		return &core.ValidationError{Field: "entity_id", Message: "must not be empty"}
	}
	return nil
}

// RedisConfig locates the snapshot store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ServerConfig configures the mind server process.
type ServerConfig struct {
	// Addr is the listen address for the WebSocket server.
	Addr string `yaml:"addr"`

	// Model overrides the default generative model.
	Model string `yaml:"model"`

	// MaxRetries bounds generation retries per pipeline stage.
	MaxRetries int `yaml:"max_retries"`

	// MemoryPath enables on-disk memory persistence when set.
	MemoryPath string `yaml:"memory_path"`

	// Redis enables mind snapshot persistence when Addr is set.
	Redis RedisConfig `yaml:"redis"`
}

// DefaultServerConfig returns the built-in defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:       ":8765",
		MaxRetries: 2,
	}
}

// LoadServerConfig reads a YAML config file, applying defaults for
// absent fields.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8765"
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return cfg, nil
}
