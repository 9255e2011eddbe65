// Package formconfig loads FormConfig documents from JSON or YAML files and
// keeps them in a Store keyed by form id. The package embeds the dashboard's
// default forms (task, badge, shop item, admin, login) and provides Lint, an
// advisory checker for authoring mistakes the engine itself tolerates.
package formconfig
