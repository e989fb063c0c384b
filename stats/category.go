package stats

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
)

// CategoryCounts lists the distinct categories of a column and how often each
// occurs. Categories keeps the first-seen raw value of each category.
type CategoryCounts struct {
	Categories []any
	Counts     []int
}

// Len returns the number of distinct categories.
func (c CategoryCounts) Len() int {
	return len(c.Categories)
}

// Clone returns a deep copy of the slices.
func (c CategoryCounts) Clone() CategoryCounts {
	return CategoryCounts{
		Categories: append([]any(nil), c.Categories...),
		Counts:     append([]int(nil), c.Counts...),
	}
}

// CategoryKey canonicalizes a raw value so that equal categories compare
// equal as map keys: every integer kind becomes int64 (unsigned values above
// math.MaxInt64 stay uint64), integral floats become int64, other floats stay
// float64. ok is false for missing values.
func CategoryKey(v any) (key any, ok bool) {
	if IsMissing(v) {
		return nil, false
	}
	switch x := v.(type) {
	case string, bool:
		return x, true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return uintKey(uint64(x)), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return uintKey(x), true
	case float32:
		return floatKey(float64(x)), true
	case float64:
		return floatKey(x), true
	}
	if reflect.TypeOf(v).Comparable() {
		return v, true
	}
	return fmt.Sprintf("%v", v), true
}

func uintKey(u uint64) any {
	if u > math.MaxInt64 {
		return u
	}
	return int64(u)
}

func floatKey(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

// kind ranks keys for value ordering: bools, then numbers, then strings,
// then everything else by its formatted value.
func kind(key any) int {
	switch key.(type) {
	case bool:
		return 0
	case int64, uint64, float64:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

func compareKeys(a, b any) int {
	if c := cmp.Compare(kind(a), kind(b)); c != 0 {
		return c
	}
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case int64, uint64, float64:
		return compareNumbers(a, b)
	case string:
		return cmp.Compare(x, b.(string))
	default:
		return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

// compareNumbers orders int64, uint64 and float64 keys by value. uint64
// keys are always above math.MaxInt64.
func compareNumbers(a, b any) int {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y)
		case uint64:
			return -1
		}
	case uint64:
		switch y := b.(type) {
		case uint64:
			return cmp.Compare(x, y)
		case int64:
			return 1
		}
	}
	return cmp.Compare(asFloat(a), asFloat(b))
}

func asFloat(k any) float64 {
	switch x := k.(type) {
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	default:
		return k.(float64)
	}
}

// CountCategories builds CategoryCounts ordered by descending count, ties
// broken by first appearance. Missing values are skipped.
func CountCategories(values []any) CategoryCounts {
	index := make(map[any]int)
	var out CategoryCounts
	for _, v := range values {
		key, ok := CategoryKey(v)
		if !ok {
			continue
		}
		if i, seen := index[key]; seen {
			out.Counts[i]++
			continue
		}
		index[key] = len(out.Categories)
		out.Categories = append(out.Categories, v)
		out.Counts = append(out.Counts, 1)
	}

	order := make([]int, out.Len())
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(out.Counts[b], out.Counts[a])
	})
	return permute(out, order)
}

// SortLexicographic returns a copy of c ordered by category value instead of
// frequency. Numbers sort numerically and strings lexicographically; mixed
// kinds group as bools, numbers, strings, others.
func SortLexicographic(c CategoryCounts) CategoryCounts {
	order := make([]int, c.Len())
	keys := make([]any, c.Len())
	for i := range order {
		order[i] = i
		keys[i], _ = CategoryKey(c.Categories[i])
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compareKeys(keys[a], keys[b])
	})
	return permute(c, order)
}

func permute(c CategoryCounts, order []int) CategoryCounts {
	out := CategoryCounts{
		Categories: make([]any, len(order)),
		Counts:     make([]int, len(order)),
	}
	for i, j := range order {
		out.Categories[i] = c.Categories[j]
		out.Counts[i] = c.Counts[j]
	}
	return out
}
