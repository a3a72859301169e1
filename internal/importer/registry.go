package importer

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]ParseConfig)
	registryMu sync.RWMutex
)

// Register adds an import type to the registry.
// Panics if a config with the same key is already registered.
func Register(cfg ParseConfig) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if cfg.Key == "" {
		panic("import type has no key")
	}
	if _, exists := registry[cfg.Key]; exists {
		panic(fmt.Sprintf("import type already registered: %s", cfg.Key))
	}

	registry[cfg.Key] = cfg
}

// Get returns an import type by key.
// Returns false if not found.
func Get(key string) (ParseConfig, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	cfg, ok := registry[key]
	return cfg, ok
}

// All returns every registered import type, sorted by key.
func All() []ParseConfig {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ParseConfig, 0, len(registry))
	for _, cfg := range registry {
		result = append(result, cfg)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// Count returns the number of registered import types.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered import types.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]ParseConfig)
}
