package docstring

import "go.uber.org/zap"

// Sink receives structured parse diagnostics. Line numbers are absolute
// source lines (docstring start + docstring-relative offset); diagnostics are
// line-granular, so column is always reported as 0 by implementations that
// carry one. Warnings never abort a parse.
type Sink interface {
	Warning(msg string, line int)
	Error(msg string, line int)
}

// NopSink discards all diagnostics.
type NopSink struct{}

func (NopSink) Warning(string, int) {}
func (NopSink) Error(string, int)   {}

// ZapSink reports diagnostics through a zap logger, labeled with the file the
// docstring came from. The parser itself is file-unaware; the label is purely
// for display.
type ZapSink struct {
	logger *zap.Logger
	file   string
}

func NewZapSink(logger *zap.Logger, file string) *ZapSink {
	return &ZapSink{logger: logger, file: file}
}

func (s *ZapSink) Warning(msg string, line int) {
	s.logger.Warn(msg, s.fields(line)...)
}

func (s *ZapSink) Error(msg string, line int) {
	s.logger.Error(msg, s.fields(line)...)
}

func (s *ZapSink) fields(line int) []zap.Field {
	return []zap.Field{
		zap.String("file", s.file),
		zap.Int("line", line),
		zap.Int("column", 0),
	}
}
