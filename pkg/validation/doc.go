// Package validation evaluates FieldDescriptor rules.
//
// Compile turns a descriptor into Rule values; Validate and ValidateAll
// enforce them and Summarize lists them as a checklist, so the text a user
// sees and the predicate that blocks submission always come from the same
// Rule. Everything here is pure and safe for concurrent use.
//
// CheckRegistry maps the check names used in JSON/YAML form configs
// ("uppercase", "digit", "matchesField:password", ...) to predicates.
package validation
