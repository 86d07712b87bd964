package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Manager handles thread-safe manifest access and reloads.
type Manager struct {
	mu           sync.RWMutex
	current      *Config
	configPath   string
	LoadCallback func(*Config) error // optional callback after load
}

// NewManager creates a manager for the manifest at path. The format is
// chosen by extension: .toml is TOML, everything else YAML.
func NewManager(path string) *Manager {
	return &Manager{
		configPath: path,
		current:    &Config{},
	}
}

// Load reads the manifest from disk and updates the current state.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var newConfig Config
	if strings.EqualFold(filepath.Ext(m.configPath), ".toml") {
		err = toml.Unmarshal(data, &newConfig)
	} else {
		err = yaml.Unmarshal(data, &newConfig)
	}
	if err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	if err := newConfig.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = &newConfig
	m.mu.Unlock()

	if m.LoadCallback != nil {
		if err := m.LoadCallback(&newConfig); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the current manifest safely.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}
