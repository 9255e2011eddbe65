// Package template defines the template engine seam used by text based
// renderers. The pongo subpackage provides the default implementation.
package template
