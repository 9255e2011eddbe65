package expr

import (
	"errors"
	"fmt"
)

// Grammar:
//
//	or      := and ( "||" and )*
//	and     := unary ( "&&" unary )*
//	unary   := "!" unary | primary
//	primary := "(" or ")" | ident [ cmp literal ]
type parser struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	p := &parser{tokens: tokens}
	root, err := p.or()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, fmt.Errorf("condition/expr: unexpected %q at %d", tok.text, tok.pos)
	}
	return root, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kind tokenKind) bool {
	tok, ok := p.peek()
	if !ok || tok.kind != kind {
		return false
	}
	p.pos++
	return true
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept(tokOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.accept(tokAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.accept(tokNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.accept(tokLParen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokRParen) {
			return nil, errors.New("condition/expr: missing closing ')'")
		}
		return inner, nil
	}

	tok, ok := p.peek()
	if !ok {
		return nil, errors.New("condition/expr: unexpected end of expression")
	}
	if tok.kind != tokIdent {
		return nil, fmt.Errorf("condition/expr: expected field name at %d, got %q", tok.pos, tok.text)
	}
	p.pos++

	op, ok := p.peek()
	if !ok || !op.kind.isComparison() {
		return truthyNode{field: tok.text}, nil
	}
	p.pos++

	lit, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("condition/expr: missing value after %q", op.text)
	}
	p.pos++
	switch lit.kind {
	case tokString, tokNumber, tokBool, tokNull:
	case tokIdent:
		// bare words compare as strings: frequency == daily
		lit.kind = tokString
	default:
		return nil, fmt.Errorf("condition/expr: expected value at %d, got %q", lit.pos, lit.text)
	}
	if lit.kind == tokNull && op.kind != tokEq && op.kind != tokNeq {
		return nil, fmt.Errorf("condition/expr: operator %q cannot compare with null", op.text)
	}
	return compareNode{field: tok.text, op: op.kind, value: lit}, nil
}
