package admxml

import (
	"log/slog"

	"admkit/internal/logging"
)

// Option configures Parse and ParseFrame.
type Option func(*parseSettings)

type parseSettings struct {
	logger *slog.Logger
}

// WithLogger sends debug summaries of the parse to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *parseSettings) {
		s.logger = logger
	}
}

func newParseSettings(opts []Option) parseSettings {
	s := parseSettings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	s.logger = logging.NewComponentLogger(s.logger, "admxml")
	return s
}

// WriterOptions configures Write and WriteFrame.
type WriterOptions struct {
	// WriteDefaultValues emits optional attributes even when they hold their
	// default.
	WriteDefaultValues bool
	// ITUStructure wraps static documents in ituADM instead of ebuCoreMain.
	ITUStructure bool
	// Indent is the number of spaces per level; 0 writes a single line.
	Indent int
	Logger *slog.Logger
}
