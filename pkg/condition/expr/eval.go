package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type node interface {
	eval(values map[string]any) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(values map[string]any) bool {
	return n.left.eval(values) || n.right.eval(values)
}

type andNode struct{ left, right node }

func (n andNode) eval(values map[string]any) bool {
	return n.left.eval(values) && n.right.eval(values)
}

type notNode struct{ inner node }

func (n notNode) eval(values map[string]any) bool {
	return !n.inner.eval(values)
}

type truthyNode struct{ field string }

func (n truthyNode) eval(values map[string]any) bool {
	value, ok := resolve(values, n.field)
	return ok && truthy(value)
}

type compareNode struct {
	field string
	op    tokenKind
	value token
}

func (n compareNode) eval(values map[string]any) bool {
	got, _ := resolve(values, n.field)

	switch n.value.kind {
	case tokNull:
		isNull := got == nil
		if n.op == tokEq {
			return isNull
		}
		return !isNull
	case tokBool:
		want := n.value.text == "true"
		return compareOrdered(n.op, boolRank(truthy(got)), boolRank(want))
	case tokNumber:
		want, _ := strconv.ParseFloat(n.value.text, 64)
		have, ok := toNumber(got)
		if !ok {
			return n.op == tokNeq
		}
		return compareOrdered(n.op, have, want)
	default:
		return compareOrdered(n.op, toString(got), n.value.text)
	}
}

func compareOrdered[T float64 | string](op tokenKind, have, want T) bool {
	switch op {
	case tokEq:
		return have == want
	case tokNeq:
		return have != want
	case tokLt:
		return have < want
	case tokLte:
		return have <= want
	case tokGt:
		return have > want
	case tokGte:
		return have >= want
	default:
		return false
	}
}

func boolRank(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// resolve looks up a field by exact key first, then walks dotted paths through
// nested maps.
func resolve(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		s := strings.TrimSpace(v)
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return s != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
