package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	domainconfig "treeforge/domain/config"
)

const reloadDebounce = 200 * time.Millisecond

// EngineConfigWatcher serves the current engine bounds and, in development,
// reloads them when ENGINE_CONFIG_FILE changes on disk.
type EngineConfigWatcher struct {
	environment string
	path        string
	logger      *zap.Logger

	mu        sync.RWMutex
	current   *domainconfig.EngineConfig
	callbacks []func(*domainconfig.EngineConfig)

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewEngineConfigWatcher starts watching cfg.EngineConfigFile when running in
// development. Otherwise the initial engine config is served unchanged.
func NewEngineConfigWatcher(cfg *Config, logger *zap.Logger) (*EngineConfigWatcher, error) {
	w := &EngineConfigWatcher{
		environment: cfg.Environment,
		path:        cfg.EngineConfigFile,
		logger:      logger,
		current:     cfg.Engine.Clone(),
		stopCh:      make(chan struct{}),
	}

	if !cfg.IsDevelopment() || cfg.EngineConfigFile == "" {
		logger.Info("Engine config hot reloading disabled",
			zap.String("environment", cfg.Environment),
		)
		return w, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors often replace files instead of writing them, so watch the directory.
	if err := fsWatcher.Add(filepath.Dir(cfg.EngineConfigFile)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch engine config: %w", err)
	}
	w.watcher = fsWatcher

	go w.watchLoop()

	logger.Info("Engine config hot reloading enabled",
		zap.String("file", cfg.EngineConfigFile),
	)
	return w, nil
}

// EngineConfig returns a copy of the current engine bounds
func (w *EngineConfigWatcher) EngineConfig() *domainconfig.EngineConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current.Clone()
}

// OnChange registers a callback to be called after a successful reload
func (w *EngineConfigWatcher) OnChange(callback func(*domainconfig.EngineConfig)) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, callback)
	w.mu.Unlock()
}

// Stop stops the watcher
func (w *EngineConfigWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

func (w *EngineConfigWatcher) watchLoop() {
	defer w.watcher.Close()

	target := filepath.Clean(w.path)
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.logger.Debug("Engine config file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			w.logger.Info("Stopping engine config watcher")
			return
		}
	}
}

func (w *EngineConfigWatcher) reload() {
	next, err := LoadEngineConfig(w.environment, w.path)
	if err != nil {
		w.logger.Error("Invalid engine config after reload, keeping previous", zap.Error(err))
		return
	}

	w.mu.Lock()
	prev := w.current
	if *prev == *next {
		w.mu.Unlock()
		return
	}
	w.current = next
	callbacks := make([]func(*domainconfig.EngineConfig), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.logger.Info("Engine config reloaded",
		zap.Int("sizeCap", next.SizeCap),
		zap.Int("depthCap", next.DepthCap),
		zap.Int("maxNodes", next.MaxNodes),
	)
	for _, cb := range callbacks {
		cb(next.Clone())
	}
}
