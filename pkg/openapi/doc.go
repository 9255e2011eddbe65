// Package openapi exposes the contracts for importing form configurations from
// OpenAPI documents: a Loader fetches the raw document, a Parser extracts
// operations and FormFromOperation turns an operation's request body into a
// model.FormConfig. Implementations live under internal/openapi to keep
// kin-openapi out of the public API.
package openapi
