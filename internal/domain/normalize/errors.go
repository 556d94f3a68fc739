package normalize

import "fmt"

// UnknownValueError reports a provider string with no canonical mapping. The
// orchestrator records these as per-record skips; they never abort a run.
type UnknownValueError struct {
	Source string
	Field  string
	Raw    string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("no canonical %s for %q from source %q", e.Field, e.Raw, e.Source)
}

func UnknownValue(source, field, raw string) *UnknownValueError {
	return &UnknownValueError{Source: source, Field: field, Raw: raw}
}
