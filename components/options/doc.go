// Package options serves the lists behind OptionsSource fields over HTTP so
// client-side pickers can search categories or badges without rendering a
// whole form.
//
// GET and HEAD requests on /api/options/{source} accept q and limit query
// parameters. Lists come from a form.OptionSource, usually provider.Sources.
package options
