package flow

import "fmt"

// ConfigError reports an invalid rule configuration. Unlike BlockError
// and PairingError, which are outcomes of evaluating a call, this is
// raised synchronously while a rule is being compiled into a
// controller, before it is ever consulted by PassCheck.
type ConfigError struct {
	message string
}

func newConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sentinel: invalid rule configuration: %s", e.message)
}
