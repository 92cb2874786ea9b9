// Package attr parses and normalizes tag attribute lists. Attribute values
// are opaque expression text: the scanner only finds their boundaries
// (respecting quotes and nested brackets) and never evaluates them.
package attr

import (
	"strings"
)

// Attr is one normalized attribute.
type Attr struct {
	Key string
	// Val is the value expression text, passed through unmodified. Empty
	// with Boolean false means an explicit empty value (a=).
	Val string
	// Boolean marks an attribute that was present with no value at all.
	// Distinct from an empty-string value.
	Boolean bool
}

// List is an ordered attribute list with duplicates already merged.
type List []Attr

// Normalize merges raw attributes in source order. Duplicate keys are
// last-write-wins (the documented output-language convention); the merged
// attribute keeps the position of the key's first occurrence. The class key
// is the exception: every occurrence accumulates, because class qualifiers
// and explicit class attributes compose instead of replacing each other.
func Normalize(raw []Attr) List {
	out := make(List, 0, len(raw))
	pos := make(map[string]int, len(raw))
	var classes []Attr

	for _, a := range raw {
		if a.Key == "class" {
			if len(classes) == 0 {
				pos["class"] = len(out)
				out = append(out, Attr{Key: "class"})
			}
			classes = append(classes, a)
			continue
		}
		if i, seen := pos[a.Key]; seen {
			out[i] = a
			continue
		}
		pos[a.Key] = len(out)
		out = append(out, a)
	}

	if len(classes) > 0 {
		out[pos["class"]] = mergeClasses(classes)
	}
	return out
}

// mergeClasses folds class attributes into one. Adjacent string literals are
// joined with spaces; a dynamic expression keeps its text and is rendered as
// an interpolation by the generator.
func mergeClasses(classes []Attr) Attr {
	var static []string
	var dynamic []string
	for _, c := range classes {
		if lit, ok := Literal(c.Val); ok {
			static = append(static, lit)
		} else {
			dynamic = append(dynamic, c.Val)
		}
	}
	if len(dynamic) == 0 {
		return Attr{Key: "class", Val: quote(strings.Join(static, " "))}
	}
	// Mixed static + dynamic: fold the static names into a literal prefix
	// and concatenate the expressions, space-separated.
	parts := dynamic
	if len(static) > 0 {
		parts = append([]string{quote(strings.Join(static, " "))}, dynamic...)
	}
	return Attr{Key: "class", Val: strings.Join(parts, ` + " " + `)}
}

// Literal reports whether val is a plain quoted string with no escapes and
// returns its content.
func Literal(val string) (string, bool) {
	if len(val) < 2 {
		return "", false
	}
	q := val[0]
	if q != '"' && q != '\'' {
		return "", false
	}
	if val[len(val)-1] != q {
		return "", false
	}
	inner := val[1 : len(val)-1]
	if strings.ContainsAny(inner, "\\\"'") {
		return "", false
	}
	return inner, true
}

func quote(s string) string {
	return `"` + s + `"`
}
