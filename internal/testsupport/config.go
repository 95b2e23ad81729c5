package testsupport

import (
	"path/filepath"
	"testing"

	"admkit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.FlowDB = filepath.Join(base, "state", "flows.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWriteDefaults toggles emission of default-valued attributes.
func WithWriteDefaults(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Writer.WriteDefaultValues = enabled
	}
}

// WithWorkers overrides the batch conversion concurrency.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Convert.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
