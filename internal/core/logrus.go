package core

import "github.com/sirupsen/logrus"

// LogrusLogger adapts a logrus entry to Logger. Key/value args become fields;
// a trailing key without a value is recorded under "arg".
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps logger, or the standard logrus logger when nil.
func NewLogrusLogger(logger *logrus.Logger) *LogrusLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusLogger{entry: logrus.NewEntry(logger)}
}

// WithField returns a logger that adds key to every entry.
func (l *LogrusLogger) WithField(key string, value any) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *LogrusLogger) Debug(msg string, args ...any) { l.with(args).Debug(msg) }
func (l *LogrusLogger) Info(msg string, args ...any)  { l.with(args).Info(msg) }
func (l *LogrusLogger) Warn(msg string, args ...any)  { l.with(args).Warn(msg) }
func (l *LogrusLogger) Error(msg string, args ...any) { l.with(args).Error(msg) }

func (l *LogrusLogger) with(args []any) *logrus.Entry {
	if len(args) == 0 {
		return l.entry
	}
	fields := make(logrus.Fields, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || i+1 == len(args) {
			fields["arg"] = args[i]
			continue
		}
		fields[key] = args[i+1]
	}
	return l.entry.WithFields(fields)
}
