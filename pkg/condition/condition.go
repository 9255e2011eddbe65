// Package condition decides whether a field is disabled given the current
// form values. Expressions are strings authored in a FormConfig; the expr
// subpackage provides the default evaluator.
package condition

// Evaluator reports whether expression holds for values.
type Evaluator interface {
	Eval(expression string, values map[string]any) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(expression string, values map[string]any) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(expression string, values map[string]any) (bool, error) {
	return fn(expression, values)
}

// Never is an Evaluator that treats every expression as false.
var Never Evaluator = EvaluatorFunc(func(string, map[string]any) (bool, error) {
	return false, nil
})
