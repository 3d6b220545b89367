package config

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Overrides is the shape of the optional YAML overrides file. Zero values
// mean "keep the current setting".
type Overrides struct {
	Limits struct {
		MaxExplorationsPerUser int `yaml:"maxExplorationsPerUser"`
	} `yaml:"limits"`
	LLM struct {
		Model string `yaml:"model"`
	} `yaml:"llm"`
}

// DynamicSettings holds the runtime-tunable subset of the configuration.
// It is seeded from the static config and updated in place when the watched
// overrides file changes, so readers always see a consistent snapshot.
type DynamicSettings struct {
	mu              sync.RWMutex
	model           string
	maxExplorations int
}

// NewDynamicSettings seeds the runtime settings from the static config
func NewDynamicSettings(cfg *Config) *DynamicSettings {
	return &DynamicSettings{
		model:           cfg.LLMModel,
		maxExplorations: cfg.MaxExplorationsPerUser,
	}
}

// Model returns the LLM model identifier to request
func (s *DynamicSettings) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// MaxExplorationsPerUser returns the per-owner quota
func (s *DynamicSettings) MaxExplorationsPerUser() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxExplorations
}

// apply merges a loaded overrides document into the settings
func (s *DynamicSettings) apply(o Overrides) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.LLM.Model != "" {
		s.model = o.LLM.Model
	}
	if o.Limits.MaxExplorationsPerUser > 0 {
		s.maxExplorations = o.Limits.MaxExplorationsPerUser
	}
}

// loadOverridesFile reads and parses the YAML overrides file
func loadOverridesFile(path string) (Overrides, error) {
	var o Overrides
	data, err := os.ReadFile(path)
	if err != nil {
		return o, err
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, err
	}
	return o, nil
}

// Watch applies the overrides file now and on every subsequent change. It
// returns a stop function. A missing or malformed file is logged and skipped;
// the previous settings stay in effect.
func (s *DynamicSettings) Watch(path string, logger *zap.Logger) (func(), error) {
	if o, err := loadOverridesFile(path); err != nil {
		logger.Warn("could not load config overrides, using defaults",
			zap.String("path", path),
			zap.Error(err),
		)
	} else {
		s.apply(o)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					o, err := loadOverridesFile(path)
					if err != nil {
						logger.Warn("failed to reload config overrides",
							zap.String("path", path),
							zap.Error(err),
						)
						continue
					}
					s.apply(o)
					logger.Info("config overrides reloaded", zap.String("path", path))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", zap.Error(err))
			case <-stopCh:
				return
			}
		}
	}()

	return func() {
		close(stopCh)
		watcher.Close()
	}, nil
}
