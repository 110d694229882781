// Package render implements the small mustache-like engine used by the
// server-rendered pages: {{var}}, {{#if var}}…{{/if}} and {{#each var}}…{{/each}}.
package render

import (
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Context is the variable bag for a single render.
type Context map[string]any

var (
	ifBlock   = regexp.MustCompile(`(?s){{#if (\w+)}}(.*?){{/if}}`)
	eachBlock = regexp.MustCompile(`(?s){{#each (\w+)}}(.*?){{/each}}`)
)

// Render substitutes ctx into tmpl in three passes: top-level primitives,
// then conditional blocks, then iteration blocks. Blocks do not nest.
// Unknown placeholders are left untouched.
func Render(tmpl string, ctx Context) string {
	out := substitute(tmpl, ctx)

	out = ifBlock.ReplaceAllStringFunc(out, func(block string) string {
		m := ifBlock.FindStringSubmatch(block)
		if Truthy(ctx[m[1]]) {
			return m[2]
		}
		return ""
	})

	out = eachBlock.ReplaceAllStringFunc(out, func(block string) string {
		m := eachBlock.FindStringSubmatch(block)
		return expandEach(m[2], ctx[m[1]])
	})

	return out
}

// substitute replaces {{key}} for every primitive value in vars. Keys are
// visited in sorted order so output never depends on map iteration.
func substitute(tmpl string, vars map[string]any) string {
	if len(vars) == 0 || !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		s, ok := primitiveString(vars[k])
		if !ok {
			continue
		}
		pairs = append(pairs, "{{"+k+"}}", s)
	}
	if len(pairs) == 0 {
		return tmpl
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func expandEach(body string, value any) string {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return ""
	}

	var b strings.Builder
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if fields, ok := asMap(item); ok {
			b.WriteString(substitute(body, fields))
			continue
		}
		s, _ := primitiveString(item)
		b.WriteString(strings.ReplaceAll(body, "{{this}}", s))
	}
	return b.String()
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Context:
		return m, true
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

// primitiveString formats strings and numbers; anything else is not a
// substitution candidate.
func primitiveString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(x).Int(), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(x).Uint(), 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}

// Truthy follows the JavaScript notion of truthiness for the value shapes a
// Context carries.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
