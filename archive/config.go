package archive

import (
	"errors"
	"time"
)

// Config controls how Build assembles an archive pipeline.
type Config struct {
	// Dir is the directory archived files are written under.
	Dir string `mapstructure:"dir"`
	// UserAgent is sent with every request when set.
	UserAgent string `mapstructure:"user-agent"`
	// Limit caps the number of bytes stored per document. Zero means no cap.
	Limit int64 `mapstructure:"limit"`
	// Timeout bounds each request, including reading the body.
	Timeout time.Duration `mapstructure:"timeout"`
	// Verbose logs every derived storage path.
	Verbose bool `mapstructure:"verbose"`
}

// Default configuration values.
const (
	DefaultDir     = "my-archive"
	DefaultTimeout = 30 * time.Second
)

// Configuration errors.
var (
	ErrNoDir           = errors.New("archive directory is required")
	ErrNegativeLimit   = errors.New("limit must not be negative")
	ErrNegativeTimeout = errors.New("timeout must not be negative")
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Dir:     DefaultDir,
		Timeout: DefaultTimeout,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Dir == "":
		return ErrNoDir
	case c.Limit < 0:
		return ErrNegativeLimit
	case c.Timeout < 0:
		return ErrNegativeTimeout
	}
	return nil
}
