package knowledge

import "time"

// Config holds guideline store initialization parameters.
type Config struct {
	Path            string `json:"path,omitempty"`              // guideline directory; empty disables guidelines
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty"` // snapshot refresh interval; 0 caches forever
}

// DefaultConfig returns the default knowledge configuration (disabled).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.CacheTTLSeconds > 0 {
		c.CacheTTLSeconds = source.CacheTTLSeconds
	}
}

// NewStore creates a cached file Store from configuration. Returns nil
// when Path is empty, indicating guidelines are disabled.
func NewStore(cfg *Config) Store {
	if cfg.Path == "" {
		return nil
	}
	return NewCache(NewFileStore(cfg.Path), time.Duration(cfg.CacheTTLSeconds)*time.Second)
}
