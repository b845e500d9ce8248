package port

import "fmt"

// ConfigurationError reports a transport endpoint that is not fully
// configured. It is raised before any network operation and is not
// retryable without a configuration change. Messages never include
// credential values.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// DispatchError reports a transport-level failure during connect,
// authenticate or write. No report status is mutated when one is
// returned; re-invoking the whole batch is safe.
type DispatchError struct {
	Op  string
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s failed: %v", e.Op, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// ReferenceDataError reports that the external reference source could
// not be consumed. Callers surface it as a degraded-service condition
// rather than a crash.
type ReferenceDataError struct {
	Msg string
	Err error
}

func (e *ReferenceDataError) Error() string {
	return e.Msg
}

func (e *ReferenceDataError) Unwrap() error {
	return e.Err
}
