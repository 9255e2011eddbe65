// Package expr implements the default condition evaluator.
//
// Supported syntax:
//   - truthiness: `published`, `!published`
//   - comparisons: `frequency == "daily"`, `price > 0`, `role != admin`
//   - composition: `&&`, `||`, `and`, `or`, `not`, parentheses
//
// Field names resolve against the value map, first as exact keys and then as
// dotted paths through nested maps. Unknown fields evaluate as null.
package expr

import (
	"strings"
	"sync"
)

// Program is a compiled expression, safe for concurrent use.
type Program struct {
	source string
	root   node
}

// Compile parses source. An empty source compiles to a program that is always
// false.
func Compile(source string) (*Program, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return &Program{}, nil
	}
	tokens, err := lex(trimmed)
	if err != nil {
		return nil, err
	}
	root, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	return &Program{source: trimmed, root: root}, nil
}

// Source returns the trimmed expression text.
func (p *Program) Source() string {
	return p.source
}

// Eval runs the program against values.
func (p *Program) Eval(values map[string]any) bool {
	if p == nil || p.root == nil {
		return false
	}
	return p.root.eval(values)
}

// Evaluator compiles expressions on first use and caches the result.
type Evaluator struct {
	mu    sync.RWMutex
	cache map[string]*Program
}

// New returns an Evaluator with an empty cache.
func New() *Evaluator {
	return &Evaluator{cache: make(map[string]*Program)}
}

// Eval satisfies condition.Evaluator.
func (e *Evaluator) Eval(expression string, values map[string]any) (bool, error) {
	program, err := e.program(expression)
	if err != nil {
		return false, err
	}
	return program.Eval(values), nil
}

func (e *Evaluator) program(expression string) (*Program, error) {
	e.mu.RLock()
	program, ok := e.cache[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.cache == nil {
		e.cache = make(map[string]*Program)
	}
	e.cache[expression] = program
	e.mu.Unlock()
	return program, nil
}
