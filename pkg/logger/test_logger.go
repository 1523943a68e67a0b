package logger

import (
	"sync"
)

// TestLogger captures log messages for assertions in tests.
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	fields   map[string]interface{}
	err      error
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   l.err,
	})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &boundTestLogger{parent: l, fields: merged, err: l.err}
}

func (l *TestLogger) WithError(err error) Logger {
	return &boundTestLogger{parent: l, fields: l.fields, err: err}
}

// Messages returns a copy of all captured log messages
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// MessagesByLevel returns captured messages of a specific level
func (l *TestLogger) MessagesByLevel(level string) []LogMessage {
	var filtered []LogMessage
	for _, msg := range l.Messages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage checks if a message with the given text was logged
func (l *TestLogger) HasMessage(text string) bool {
	for _, msg := range l.Messages() {
		if msg.Message == text {
			return true
		}
	}
	return false
}

// boundTestLogger is a TestLogger view carrying field/error context.
type boundTestLogger struct {
	parent *TestLogger
	fields map[string]interface{}
	err    error
}

func (l *boundTestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.parent.mu.Lock()
	defer l.parent.mu.Unlock()
	l.parent.messages = append(l.parent.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   l.err,
	})
}

func (l *boundTestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *boundTestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *boundTestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *boundTestLogger) Error(msg string) { l.log("ERROR", msg, nil) }

func (l *boundTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *boundTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *boundTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *boundTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

func (l *boundTestLogger) WithField(key string, value interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		merged[k] = v
	}
	merged[key] = value
	return &boundTestLogger{parent: l.parent, fields: merged, err: l.err}
}

func (l *boundTestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &boundTestLogger{parent: l.parent, fields: merged, err: l.err}
}

func (l *boundTestLogger) WithError(err error) Logger {
	return &boundTestLogger{parent: l.parent, fields: l.fields, err: err}
}
