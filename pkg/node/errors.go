package node

import "errors"

// Sentinel errors for node construction, validation, and execution. Each
// corresponds to one of the error kinds in the runtime's error taxonomy.
var (
	// ErrMissingSubroutine is a construction error: a node was created
	// without a callable subroutine.
	ErrMissingSubroutine = errors.New("node: missing subroutine")

	// ErrInputValidationFailed is a validation error: gathered input
	// values did not satisfy a data-processing node's shape expectations.
	ErrInputValidationFailed = errors.New("node: input validation failed")

	// ErrConfigInvalid is an external-call node's config-invalid error:
	// the node has no usable endpoint. Does not count as an API call.
	ErrConfigInvalid = errors.New("node: external-call configuration invalid")

	// ErrTransport wraps a round-trip failure below the HTTP/WebSocket layer.
	ErrTransport = errors.New("node: transport error")

	// ErrTimeout is returned when an external call exceeds its configured deadline.
	ErrTimeout = errors.New("node: external call timed out")

	// ErrStatus is returned for a non-2xx HTTP response.
	ErrStatus = errors.New("node: external call returned an error status")

	// ErrDecode is returned when a response body could not be decoded as JSON.
	ErrDecode = errors.New("node: failed to decode external call response")
)
