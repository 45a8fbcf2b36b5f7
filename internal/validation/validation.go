// Package validation binds request payloads and turns validator failures
// into field level API errors.
package validation
