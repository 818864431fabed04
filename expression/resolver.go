package expression

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/nmishr/flowgate/flow"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// NamespaceResolver resolves the part of an expression after a registered
// namespace prefix, e.g. "x" for "${global.x}".
type NamespaceResolver func(name string, ctx *flow.Context) (any, bool)

var nsMu sync.RWMutex
var namespaces = map[string]NamespaceResolver{
	"input": resolveInput,
}

// RegisterNamespace installs a resolver for a new expression namespace
// without touching the scanner. Lookups for step results keep working for
// any prefix that is not registered here.
func RegisterNamespace(ns string, resolver NamespaceResolver) {
	nsMu.Lock()
	defer nsMu.Unlock()
	namespaces[ns] = resolver
}

func resolveInput(name string, ctx *flow.Context) (any, bool) {
	return ctx.Input(name)
}

// Evaluate resolves a single bare expression (the identifier between "${"
// and "}") against the context. The second return reports whether the
// expression resolved at all.
func Evaluate(expr string, ctx *flow.Context) (any, bool) {
	prefix, rest, found := strings.Cut(expr, ".")
	if !found {
		return nil, false
	}
	nsMu.RLock()
	resolver, ok := namespaces[prefix]
	nsMu.RUnlock()
	if ok {
		return resolver(rest, ctx)
	}
	result, ok := ctx.StepResult(prefix)
	if !ok {
		return nil, false
	}
	switch rest {
	case "result":
		return result.Result, true
	case "success":
		return result.IsSuccess, true
	}
	return nil, false
}

// Resolve recursively resolves expressions inside an arbitrarily nested
// value. Maps and lists are rebuilt element by element preserving structure;
// scalars other than strings pass through unchanged. A string that is
// exactly one "${...}" expression yields the typed value behind it, an
// embedded expression is interpolated into text. Unresolved expressions keep
// their literal text.
func Resolve(value any, ctx *flow.Context) any {
	switch v := value.(type) {
	case string:
		return resolveString(v, ctx)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Resolve(item, ctx)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, Resolve(item, ctx))
		}
		return out
	default:
		return value
	}
}

// ResolveParams resolves every value of a step's parameter map.
func ResolveParams(params map[string]any, ctx *flow.Context) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = Resolve(v, ctx)
	}
	return out
}

func resolveString(s string, ctx *flow.Context) any {
	if !strings.Contains(s, "${") {
		return s
	}
	if inner, ok := wholeExpression(s); ok {
		if v, resolved := Evaluate(inner, ctx); resolved {
			return v
		}
		return s
	}
	return Interpolate(s, ctx)
}

// IsWholeExpression reports whether s is exactly one "${...}" expression.
func IsWholeExpression(s string) bool {
	_, ok := wholeExpression(s)
	return ok
}

// wholeExpression reports whether s is exactly one "${...}" expression and
// returns its inner identifier.
func wholeExpression(s string) (string, bool) {
	matches := exprPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) != 1 {
		return "", false
	}
	m := matches[0]
	if m[0] != 0 || m[1] != len(s) {
		return "", false
	}
	return s[m[2]:m[3]], true
}

// Interpolate replaces every "${...}" occurrence in s with the string form
// of its resolved value. Unresolved expressions are left as their original
// literal text.
func Interpolate(s string, ctx *flow.Context) string {
	return exprPattern.ReplaceAllStringFunc(s, func(token string) string {
		inner := token[2 : len(token)-1]
		v, ok := Evaluate(inner, ctx)
		if !ok {
			return token
		}
		return fmt.Sprintf("%v", v)
	})
}
