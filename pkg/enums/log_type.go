package enums

import "fmt"

// LogType classifies activity log entries.
type LogType string

const (
	LogTypeAPICall     LogType = "api_call"
	LogTypeUserAction  LogType = "user_action"
	LogTypeAdminAction LogType = "admin_action"
	LogTypeError       LogType = "error"
	LogTypeSystem      LogType = "system"
)

// IsValid reports whether the log type is known.
func (t LogType) IsValid() bool {
	switch t {
	case LogTypeAPICall, LogTypeUserAction, LogTypeAdminAction, LogTypeError, LogTypeSystem:
		return true
	}
	return false
}

// ParseLogType converts a raw string into a LogType.
func ParseLogType(raw string) (LogType, error) {
	t := LogType(raw)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid log type %q", raw)
	}
	return t, nil
}
