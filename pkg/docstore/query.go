package docstore

import (
	"sort"
	"time"
)

// matchQuery reports whether fields satisfy every filter of q. Used by the
// backends that evaluate filters client-side (memory, sql).
func matchQuery(fields Fields, q Query) bool {
	for _, f := range q.Filters {
		v, ok := fields[f.Field]
		if !ok {
			return false
		}

		switch f.Op {
		case OpEqual:
			if !looseEqual(v, f.Value) {
				return false
			}
		case OpArrayContains:
			if !arrayContains(v, f.Value) {
				return false
			}
		default:
			return false
		}
	}

	return true
}

func arrayContains(v, member any) bool {
	switch arr := v.(type) {
	case []any:
		for _, e := range arr {
			if looseEqual(e, member) {
				return true
			}
		}
	case []string:
		for _, e := range arr {
			if looseEqual(e, member) {
				return true
			}
		}
	}

	return false
}

// looseEqual compares scalars across the numeric representations a document
// can come back with (int64 in memory, float64 after a JSON round trip).
func looseEqual(a, b any) bool {
	if a == b {
		return true
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}

	at, aok := toTime(a)
	bt, bok := toTime(b)
	if aok && bok {
		return at.Equal(bt)
	}

	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}

	return time.Time{}, false
}

// sortAndLimit orders docs by q.OrderBy and truncates to q.Limit. Documents
// missing the order field sort first.
func sortAndLimit(docs []Document, q Query) []Document {
	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := fieldLess(docs[i].Fields[q.OrderBy], docs[j].Fields[q.OrderBy])
			if q.Desc {
				return !less && !looseEqual(docs[i].Fields[q.OrderBy], docs[j].Fields[q.OrderBy])
			}
			return less
		})
	}

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}

	return docs
}

func fieldLess(a, b any) bool {
	if at, ok := toTime(a); ok {
		if bt, ok := toTime(b); ok {
			return at.Before(bt)
		}
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af < bf
		}
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as < bs
	}

	return a == nil && b != nil
}

// applyTransforms resolves Inc values in updates against current and merges
// the result into a copy of current.
func applyTransforms(current, updates Fields) Fields {
	merged := cloneFields(current)
	for k, v := range updates {
		if inc, ok := v.(incValue); ok {
			merged[k] = addNumber(merged[k], inc.delta)
			continue
		}
		merged[k] = v
	}

	return merged
}

func addNumber(current any, delta int64) any {
	if f, ok := toFloat(current); ok {
		switch current.(type) {
		case float32, float64:
			return f + float64(delta)
		}
		return int64(f) + delta
	}

	return delta
}

func cloneFields(fields Fields) Fields {
	clone := make(Fields, len(fields))
	for k, v := range fields {
		clone[k] = cloneValue(v)
	}

	return clone
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Fields:
		return cloneFields(t)
	case map[string]any:
		return map[string]any(cloneFields(t))
	case []any:
		arr := make([]any, len(t))
		for i, e := range t {
			arr[i] = cloneValue(e)
		}
		return arr
	case []string:
		arr := make([]string, len(t))
		copy(arr, t)
		return arr
	}

	return v
}
