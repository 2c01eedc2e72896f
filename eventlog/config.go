package eventlog

// Config holds event log initialization parameters.
type Config struct {
	// SQLitePath is the durable sink database file; empty keeps the log
	// in memory only.
	SQLitePath string `json:"sqlite_path,omitempty"`
}

// DefaultConfig returns the default event log configuration (in-memory
// only).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.SQLitePath != "" {
		c.SQLitePath = source.SQLitePath
	}
}

// NewRecorderFromConfig creates a Recorder, attaching a SQLite sink when
// configured.
func NewRecorderFromConfig(cfg *Config) (*Recorder, error) {
	if cfg.SQLitePath == "" {
		return NewRecorder(nil), nil
	}
	sink, err := NewSQLiteSink(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return NewRecorder(sink), nil
}
