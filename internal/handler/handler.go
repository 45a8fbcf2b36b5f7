// Package handler is the HTTP layer: it binds requests, calls services,
// and writes responses. Errors are returned to the global error handler.
package handler
