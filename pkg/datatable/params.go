package datatable

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Params is the read-only request parameter source a transformer reads from.
type Params interface {
	Get(key string) (any, bool)
}

// Values is a Params backed by a nested map. Nested values are either
// map[string]any or []any.
type Values map[string]any

func (v Values) Get(key string) (any, bool) {
	val, ok := v[key]
	return val, ok
}

// ParamsFromMap wraps a decoded JSON body.
func ParamsFromMap(m map[string]any) Values {
	if m == nil {
		return Values{}
	}
	return Values(m)
}

// ParamsFromValues decodes query string or form values, expanding bracket
// notation into nested maps:
//
//	columns[0][search][value]=x  ->  {"columns": {"0": {"search": {"value": "x"}}}}
//	tags[]=a&tags[]=b            ->  {"tags": {"0": "a", "1": "b"}}
//
// Only the first value of a repeated key is kept.
func ParamsFromValues(values url.Values) Values {
	result := Values{}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		path := splitBracketKey(key)
		if strings.HasSuffix(key, "[]") {
			for _, v := range vals {
				setPath(result, path, v)
			}
			continue
		}
		setPath(result, path, vals[0])
	}

	return result
}

// splitBracketKey turns "a[b][c]" into ["a", "b", "c"].
func splitBracketKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return []string{key}
	}
	path := []string{key[:open]}
	for _, seg := range strings.Split(key[open+1:len(key)-1], "][") {
		path = append(path, seg)
	}
	return path
}

func setPath(m map[string]any, path []string, value string) {
	for i, seg := range path {
		if seg == "" {
			seg = strconv.Itoa(len(m))
		}
		if i == len(path)-1 {
			m[seg] = value
			return
		}
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
}

// lookup walks nested maps and slices. Slice indexes are decimal segments.
func lookup(p Params, key string, path ...string) (any, bool) {
	cur, ok := p.Get(key)
	if !ok {
		return nil, false
	}
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			cur, ok = node[seg]
		case Values:
			cur, ok = node[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur, ok = node[i], true
		default:
			return nil, false
		}
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// list returns the elements of a JSON array or of a map keyed by indexes,
// in index order.
func list(v any) []any {
	switch node := v.(type) {
	case []any:
		return node
	case map[string]any:
		type entry struct {
			index int
			value any
		}
		entries := make([]entry, 0, len(node))
		for k, val := range node {
			i, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			entries = append(entries, entry{index: i, value: val})
		}
		sort.Slice(entries, func(a, b int) bool { return entries[a].index < entries[b].index })
		out := make([]any, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.value)
		}
		return out
	default:
		return nil
	}
}

func paramString(p Params, key string, path ...string) string {
	v, ok := lookup(p, key, path...)
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

func paramInt(p Params, def int, key string, path ...string) int {
	v, ok := lookup(p, key, path...)
	if !ok {
		return def
	}
	i, ok := toInt(v)
	if !ok {
		return def
	}
	return i
}

// toInt accepts decimal strings and JSON numbers.
func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		i, err := cast.ToIntE(val)
		if err != nil {
			return 0, false
		}
		return i, true
	}
}
