package plant

import "fmt"

// ConfigurationError reports an invalid plant attribute.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid plant configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid plant configuration: %s %s", e.Field, e.Reason)
}
