package deploy

import "fmt"

// ConfigErrorKind is the closed set of configuration failure categories.
// Every kind is fatal and user-correctable; none is retried automatically.
type ConfigErrorKind int

const (
	// ErrEmptyField means a required field was left blank.
	ErrEmptyField ConfigErrorKind = iota

	// ErrDirectoryNotFound means the project directory does not exist or
	// is not a directory.
	ErrDirectoryNotFound

	// ErrUserNotFound means the deploy user does not name an existing
	// system account.
	ErrUserNotFound

	// ErrVenvNotFound means no virtualenv with an executable interpreter
	// could be located under the project directory.
	ErrVenvNotFound

	// ErrInvalidBroker means the broker selection is not one of the
	// supported brokers.
	ErrInvalidBroker
)

func (k ConfigErrorKind) String() string {
	switch k {
	case ErrEmptyField:
		return "empty field"
	case ErrDirectoryNotFound:
		return "directory not found"
	case ErrUserNotFound:
		return "user not found"
	case ErrVenvNotFound:
		return "virtualenv not found"
	case ErrInvalidBroker:
		return "invalid broker"
	}
	return "unknown"
}

// ConfigError is a fatal configuration failure with a specific kind, so
// callers can produce an actionable diagnostic and exit without attempting
// further steps.
type ConfigError struct {
	Kind   ConfigErrorKind
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("deploy: config: %s: %s: %s", e.Field, e.Kind, e.Detail)
	}
	return fmt.Sprintf("deploy: config: %s: %s", e.Field, e.Kind)
}

// Is reports whether target is a ConfigError of the same kind, so tests and
// callers can match on kind with errors.Is.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	return ok && t.Kind == e.Kind
}

func newConfigError(kind ConfigErrorKind, field, detail string) *ConfigError {
	return &ConfigError{Kind: kind, Field: field, Detail: detail}
}
