// Package orchestrator wires the form pipeline behind a single entry point:
// form configurations come from a formconfig.Store (or are imported from an
// OpenAPI document), named checks are bound through a validation registry,
// option sources fill select fields and a render.Registry produces the
// output.
package orchestrator
