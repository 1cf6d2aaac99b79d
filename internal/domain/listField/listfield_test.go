package listField_test

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"devevent/internal/domain/listField"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  listField.RawFieldValue
		want []string
	}{
		{name: "absent", raw: listField.Absent(), want: []string{}},
		{name: "empty string", raw: listField.Single(""), want: []string{}},
		{name: "only whitespace and delimiters", raw: listField.Single(" , ,\t, "), want: []string{}},
		{name: "only newlines", raw: listField.Single("\n \n\n"), want: []string{}},
		{name: "json array", raw: listField.Single(`["a","b","c"]`), want: []string{"a", "b", "c"}},
		{name: "json array trims and drops empties", raw: listField.Single(`["a", " b ", ""]`), want: []string{"a", "b"}},
		{name: "json array of numbers", raw: listField.Single(`[1, 2.5, 3]`), want: []string{"1", "2.5", "3"}},
		{name: "json array mixed scalars", raw: listField.Single(`[true, null, "x"]`), want: []string{"true", "null", "x"}},
		{name: "json numbers in shortest form", raw: listField.Single(`[1.0, 1.50, 1e2, -0, 100000000000000000000000]`), want: []string{"1", "1.5", "100", "0", "1e+23"}},
		{name: "json small and large numbers", raw: listField.Single(`[0.000001, 1e-7, 1.5e-7, 1e21, -2.50]`), want: []string{"0.000001", "1e-7", "1.5e-7", "1e+21", "-2.5"}},
		{name: "json nested array is comma-joined", raw: listField.Single(`[["a","b"],"c"]`), want: []string{"a,b", "c"}},
		{name: "json nested array with numbers and null", raw: listField.Single(`[[1.0, null, "x"], [[2, 3]], []]`), want: []string{"1,,x", "2,3"}},
		{name: "json array with surrounding whitespace", raw: listField.Single("  [\"a\"]\n"), want: []string{"a"}},
		{name: "json array keeps commas inside items", raw: listField.Single(`["Intro, welcome","Talk"]`), want: []string{"Intro, welcome", "Talk"}},
		{name: "empty json array", raw: listField.Single(`[]`), want: []string{}},
		{name: "newline", raw: listField.Single("a\nb\nc"), want: []string{"a", "b", "c"}},
		{name: "crlf", raw: listField.Single("a\r\nb\r\n"), want: []string{"a", "b"}},
		{name: "double pipe", raw: listField.Single("a||b||c"), want: []string{"a", "b", "c"}},
		{name: "comma", raw: listField.Single("a,b,c"), want: []string{"a", "b", "c"}},
		{name: "comma fragments items containing commas", raw: listField.Single("a, b with, comma, c"), want: []string{"a", "b with", "comma", "c"}},
		{name: "newline wins over comma", raw: listField.Single("a\nb,c"), want: []string{"a", "b,c"}},
		{name: "newline wins over double pipe", raw: listField.Single("a||b\nc"), want: []string{"a||b", "c"}},
		{name: "double pipe wins over comma", raw: listField.Single("a,b||c"), want: []string{"a,b", "c"}},
		{name: "malformed json falls through to comma", raw: listField.Single(`["a","b"`), want: []string{`["a"`, `"b"`}},
		{name: "json object falls through", raw: listField.Single(`{"a":1}`), want: []string{`{"a":1}`}},
		{name: "json number falls through", raw: listField.Single(`42`), want: []string{"42"}},
		{name: "single value without delimiters", raw: listField.Single("  react  "), want: []string{"react"}},
		{name: "multiple", raw: listField.Multiple(" go ", "", "rust", "  "), want: []string{"go", "rust"}},
		{name: "multiple is not decoded", raw: listField.Multiple("a,b", "c"), want: []string{"a,b", "c"}},
		{name: "multiple empty", raw: listField.Multiple(), want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := listField.Normalize(tc.raw)
			if got == nil {
				t.Fatalf("Normalize returned nil")
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		`["a", " b ", "c, d"]`,
		"first\nsecond, with comma\nthird",
		"x||y||z",
		"one, two ,three",
	}
	for _, in := range inputs {
		out := listField.NormalizeText(in)

		viaNewline := listField.NormalizeText(strings.Join(out, "\n"))
		if diff := cmp.Diff(out, viaNewline); diff != "" {
			t.Fatalf("newline re-encoding of %q changed result (-want +got):\n%s", in, diff)
		}

		b, err := json.Marshal(out)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		viaJSON := listField.NormalizeText(string(b))
		if diff := cmp.Diff(out, viaJSON); diff != "" {
			t.Fatalf("json re-encoding of %q changed result (-want +got):\n%s", in, diff)
		}
	}
}

func TestFromForm(t *testing.T) {
	form := map[string][]string{
		"tags":   {"go", "cloud"},
		"agenda": {"09:00 Doors\n10:00 Keynote"},
		"empty":  {},
	}

	cases := []struct {
		field string
		kind  listField.Kind
		want  []string
	}{
		{field: "tags", kind: listField.KindMultiple, want: []string{"go", "cloud"}},
		{field: "agenda", kind: listField.KindSingle, want: []string{"09:00 Doors", "10:00 Keynote"}},
		{field: "empty", kind: listField.KindAbsent, want: []string{}},
		{field: "missing", kind: listField.KindAbsent, want: []string{}},
	}
	for _, tc := range cases {
		raw := listField.FromValues(form, tc.field)
		if raw.Kind() != tc.kind {
			t.Fatalf("%s: kind = %v, want %v", tc.field, raw.Kind(), tc.kind)
		}
		if diff := cmp.Diff(tc.want, listField.Normalize(raw)); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", tc.field, diff)
		}
	}

	if got := listField.FromValues(nil, "tags").Kind(); got != listField.KindAbsent {
		t.Fatalf("nil form kind = %v, want absent", got)
	}
}

func TestMultipleCopiesInput(t *testing.T) {
	in := []string{"a", "b"}
	raw := listField.Multiple(in...)
	in[0] = "changed"
	if diff := cmp.Diff([]string{"a", "b"}, listField.Normalize(raw)); diff != "" {
		t.Fatalf("Multiple aliased its input (-want +got):\n%s", diff)
	}
}

func TestNormalizeConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := listField.NormalizeText(`["a","b"]`)
				if len(got) != 2 {
					t.Errorf("unexpected result %v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
