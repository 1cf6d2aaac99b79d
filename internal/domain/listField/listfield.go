// internal/domain/listField/listfield.go
package listField

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind tells which shape a submitted multi-item field arrived in.
type Kind int

const (
	KindAbsent Kind = iota
	KindSingle
	KindMultiple
)

// RawFieldValue is a multi-item form field as submitted by the client:
// missing, one text value, or the same field name repeated several times.
type RawFieldValue struct {
	kind   Kind
	single string
	multi  []string
}

// Absent is a field that was not submitted at all.
func Absent() RawFieldValue {
	return RawFieldValue{kind: KindAbsent}
}

// Single is a field submitted once.
func Single(text string) RawFieldValue {
	return RawFieldValue{kind: KindSingle, single: text}
}

// Multiple is a field submitted several times under the same name.
func Multiple(values ...string) RawFieldValue {
	cp := make([]string, len(values))
	copy(cp, values)
	return RawFieldValue{kind: KindMultiple, multi: cp}
}

// FromForm maps a form lookup (values for one field name) onto a RawFieldValue.
func FromForm(values []string, present bool) RawFieldValue {
	switch {
	case !present || len(values) == 0:
		return Absent()
	case len(values) == 1:
		return Single(values[0])
	default:
		return Multiple(values...)
	}
}

// FromValues reads field name out of a parsed form (url.Values / multipart.Form.Value).
func FromValues(form map[string][]string, name string) RawFieldValue {
	if form == nil {
		return Absent()
	}
	values, ok := form[name]
	return FromForm(values, ok)
}

func (v RawFieldValue) Kind() Kind { return v.kind }

// Normalize turns a raw field into an ordered list of trimmed, non-empty items.
// It never fails; the result is never nil.
//
// A single text value is decoded by the first matching rule in decoders:
// JSON array, newline separated, "||" separated, then comma separated.
func Normalize(raw RawFieldValue) []string {
	switch raw.kind {
	case KindMultiple:
		return clean(raw.multi)
	case KindSingle:
		for _, d := range decoders {
			if d.applies(raw.single) {
				return clean(d.decode(raw.single))
			}
		}
		return []string{}
	default:
		return []string{}
	}
}

// NormalizeText is Normalize(Single(text)).
func NormalizeText(text string) []string {
	return Normalize(Single(text))
}

type decoder struct {
	name    string
	applies func(text string) bool
	decode  func(text string) []string
}

// Order matters: the first decoder whose predicate holds wins.
var decoders = []decoder{
	{
		name: "json-array",
		applies: func(text string) bool {
			_, ok := parseJSONArray(text)
			return ok
		},
		decode: func(text string) []string {
			items, _ := parseJSONArray(text)
			return items
		},
	},
	{
		name:    "newline",
		applies: func(text string) bool { return strings.Contains(text, "\n") },
		decode:  func(text string) []string { return strings.Split(text, "\n") },
	},
	{
		name:    "double-pipe",
		applies: func(text string) bool { return strings.Contains(text, "||") },
		decode:  func(text string) []string { return strings.Split(text, "||") },
	},
	{
		name:    "comma",
		applies: func(string) bool { return true },
		decode:  func(text string) []string { return strings.Split(text, ",") },
	},
}

// parseJSONArray reports whether text is a JSON array and returns its elements
// as text (see elementText).
func parseJSONArray(text string) ([]string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &elems); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, elementText(e))
	}
	return out, true
}

// elementText stringifies one array element the way a browser's String() does:
// strings verbatim, numbers in shortest form (1.0 -> "1", 1e23 -> "1e+23", -0 -> "0"),
// nested arrays comma-joined with null items left empty, true/false/null as their
// literal. Objects keep their compact JSON text.
func elementText(e json.RawMessage) string {
	if len(e) == 0 {
		return ""
	}
	switch c := e[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			return s
		}
	case c == '-' || (c >= '0' && c <= '9'):
		var f float64
		if err := json.Unmarshal(e, &f); err == nil {
			return formatNumber(f)
		}
	case c == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(e, &items); err == nil {
			parts := make([]string, len(items))
			for i, it := range items {
				if string(it) != "null" {
					parts[i] = elementText(it)
				}
			}
			return strings.Join(parts, ",")
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, e); err != nil {
		return string(e)
	}
	return buf.String()
}

// formatNumber renders f like Number.prototype.toString: plain decimal for
// 1e-6 <= |f| < 1e21, otherwise exponent form without padding ("1e+21", "1.5e-7").
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}
