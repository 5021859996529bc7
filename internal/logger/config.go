package logger

// Config defines logging configuration
type Config struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Format      string `yaml:"format" env:"LOG_FORMAT"` // json or console
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "console",
		Development: false,
	}
}
