package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/yqyati/windy/pkg/domain"
)

// settingsRepository persists the application config as a JSON file. Reads
// and writes go through a lock so a save replaces the config wholesale and
// a concurrent reader never observes a torn value.
type settingsRepository struct {
	path string

	mu     sync.RWMutex
	config domain.Config
}

func NewSettingsRepository(path string) *settingsRepository {
	return &settingsRepository{path: path}
}

// Load reads the config file. A missing file yields the defaults and writes
// them back so the user has a template to fill in.
func (s *settingsRepository) Load() (domain.Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		config := domain.DefaultConfig()
		if err := s.Save(config); err != nil {
			return domain.Config{}, fmt.Errorf("writing default config: %w", err)
		}
		return config, nil
	}
	if err != nil {
		return domain.Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var config domain.Config
	if err := json.Unmarshal(data, &config); err != nil {
		return domain.Config{}, fmt.Errorf("parsing config file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.config = config
	s.mu.Unlock()

	return config, nil
}

func (s *settingsRepository) Save(config domain.Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	s.config = config

	return nil
}

// SetCurrent replaces the in-memory config without touching the file, so Get
// reflects overrides (environment variables) applied for this run.
func (s *settingsRepository) SetCurrent(config domain.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = config
}

func (s *settingsRepository) Get() domain.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}
