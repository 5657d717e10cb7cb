package config

import (
	"slices"
)

// Config wraps a map[string]any read from a settings file.
// Accessors never fail; callers decide what a missing key or a
// value of the wrong type means.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// Lookup returns the raw value for key and whether the key exists.
// A key that is present with a null value reports true.
func (c Config) Lookup(key string) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Keys returns the top-level keys in ascending order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of top-level keys.
func (c Config) Len() int {
	return len(c.data)
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}

// Section returns the mapping stored under key as its own Config.
// It reports false when the key is missing or does not hold a mapping.
func (c Config) Section(key string) (Config, bool) {
	m, ok := c.data[key].(map[string]any)
	if !ok {
		return Config{}, false
	}
	return New(m), true
}
