package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokBool
	tokNull
	tokEq
	tokNeq
	tokLt
	tokLte
	tokGt
	tokGte
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

func (k tokenKind) isComparison() bool {
	switch k {
	case tokEq, tokNeq, tokLt, tokLte, tokGt, tokGte:
		return true
	default:
		return false
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src    string
	pos    int
	tokens []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			return l.tokens, nil
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) emit(kind tokenKind, text string, width int) {
	l.tokens = append(l.tokens, token{kind: kind, text: text, pos: l.pos})
	l.pos += width
}

func (l *lexer) next() error {
	ch := l.src[l.pos]
	switch ch {
	case '(':
		l.emit(tokLParen, "(", 1)
	case ')':
		l.emit(tokRParen, ")", 1)
	case '!':
		if l.peekAt(1) == '=' {
			l.emit(tokNeq, "!=", 2)
		} else {
			l.emit(tokNot, "!", 1)
		}
	case '<':
		if l.peekAt(1) == '=' {
			l.emit(tokLte, "<=", 2)
		} else {
			l.emit(tokLt, "<", 1)
		}
	case '>':
		if l.peekAt(1) == '=' {
			l.emit(tokGte, ">=", 2)
		} else {
			l.emit(tokGt, ">", 1)
		}
	case '=':
		if l.peekAt(1) != '=' {
			return fmt.Errorf("condition/expr: unexpected '=' at %d; use '=='", l.pos)
		}
		l.emit(tokEq, "==", 2)
	case '&':
		if l.peekAt(1) != '&' {
			return fmt.Errorf("condition/expr: unexpected '&' at %d; use '&&'", l.pos)
		}
		l.emit(tokAnd, "&&", 2)
	case '|':
		if l.peekAt(1) != '|' {
			return fmt.Errorf("condition/expr: unexpected '|' at %d; use '||'", l.pos)
		}
		l.emit(tokOr, "||", 2)
	case '"', '\'':
		return l.quoted(ch)
	default:
		l.word()
	}
	return nil
}

func (l *lexer) quoted(quote byte) error {
	start := l.pos
	i := l.pos + 1
	escaped := false
	for i < len(l.src) {
		c := l.src[i]
		i++
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := l.src[start+1 : i-1]
		if quote == '\'' {
			body = strings.ReplaceAll(body, `\'`, `'`)
			body = strings.ReplaceAll(body, `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return fmt.Errorf("condition/expr: invalid string literal at %d: %w", start, err)
		}
		l.tokens = append(l.tokens, token{kind: tokString, text: value, pos: start})
		l.pos = i
		return nil
	}
	return fmt.Errorf("condition/expr: unterminated string literal at %d", start)
}

func (l *lexer) word() {
	start := l.pos
	for l.pos < len(l.src) && !isDelimiter(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	kind := tokIdent
	switch strings.ToLower(text) {
	case "true", "false":
		kind, text = tokBool, strings.ToLower(text)
	case "null", "nil":
		kind, text = tokNull, "null"
	case "and":
		kind = tokAnd
	case "or":
		kind = tokOr
	case "not":
		kind = tokNot
	default:
		if _, err := strconv.ParseFloat(text, 64); err == nil {
			kind = tokNumber
		}
	}
	l.tokens = append(l.tokens, token{kind: kind, text: text, pos: start})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	if isSpace(c) {
		return true
	}
	switch c {
	case '(', ')', '!', '=', '&', '|', '<', '>', '"', '\'':
		return true
	default:
		return false
	}
}
