// Package query is the generic filter, sort and paginate pipeline applied to
// the in-memory collection mirrors, plus the best-per-key aggregation used
// for charts and goal progress.
package query

import (
	"sort"
	"strings"
)

// SetFilter passes a record when the accepted set is empty (no-op) or when at
// least one of the record's values is in the set. Multiple filters combine
// with logical AND.
type SetFilter[T any] struct {
	Accepted map[string]struct{}
	Values   func(T) []string
}

func (f SetFilter[T]) passes(record T) bool {
	if len(f.Accepted) == 0 {
		return true
	}
	for _, v := range f.Values(record) {
		if _, ok := f.Accepted[v]; ok {
			return true
		}
	}
	return false
}

// NumberRange passes records within [Min,Max] inclusive, an unset bound
// imposes no constraint.
type NumberRange[T any] struct {
	Min   *float64
	Max   *float64
	Value func(T) float64
}

func (f NumberRange[T]) passes(record T) bool {
	v := f.Value(record)
	if f.Min != nil && v < *f.Min {
		return false
	}
	if f.Max != nil && v > *f.Max {
		return false
	}
	return true
}

// DateRange passes records within [Start,End] inclusive. Dates are
// YYYY-MM-DD strings, so plain string comparison orders them correctly.
type DateRange[T any] struct {
	Start string
	End   string
	Value func(T) string
}

func (f DateRange[T]) passes(record T) bool {
	v := f.Value(record)
	if f.Start != "" && v < f.Start {
		return false
	}
	if f.End != "" && v > f.End {
		return false
	}
	return true
}

// Pipeline describes the four stages: text search, set-membership filters,
// range filters and a stable sort. Zero-valued stages are no-ops, so an empty
// pipeline returns all records in their original relative order.
type Pipeline[T any] struct {
	// Search is a case-insensitive substring match against SearchText.
	Search     string
	SearchText func(T) string

	SetFilters   []SetFilter[T]
	NumberRanges []NumberRange[T]
	DateRanges   []DateRange[T]

	// Less orders ascending, Descending flips it. Ties keep their prior
	// relative order.
	Less       func(a, b T) bool
	Descending bool
}

func Apply[T any](records []T, p Pipeline[T]) []T {
	result := make([]T, 0, len(records))

	searchTerm := strings.ToLower(strings.TrimSpace(p.Search))
	for _, record := range records {
		if searchTerm != "" && p.SearchText != nil &&
			!strings.Contains(strings.ToLower(p.SearchText(record)), searchTerm) {
			continue
		}
		passes := true
		for _, f := range p.SetFilters {
			if !f.passes(record) {
				passes = false
				break
			}
		}
		if passes {
			for _, f := range p.NumberRanges {
				if !f.passes(record) {
					passes = false
					break
				}
			}
		}
		if passes {
			for _, f := range p.DateRanges {
				if !f.passes(record) {
					passes = false
					break
				}
			}
		}
		if passes {
			result = append(result, record)
		}
	}

	if p.Less != nil {
		sort.SliceStable(result, func(i, j int) bool {
			if p.Descending {
				return p.Less(result[j], result[i])
			}
			return p.Less(result[i], result[j])
		})
	}

	return result
}

// CompareStrings is the shared case-insensitive ordering for string sort keys.
func CompareStrings(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// Paginate returns the 1-based page of the given size plus the total record
// count. Out-of-range pages yield an empty slice, callers reset to page 1
// when any upstream filter or sort parameter changes.
func Paginate[T any](records []T, page, pageSize int) ([]T, int) {
	total := len(records)
	if pageSize <= 0 {
		return records, total
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []T{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return records[start:end], total
}

// BestPerKey keeps one record per distinct key, the one maximizing the
// metric. Ties keep the first encountered record, output order follows the
// first appearance of each key.
func BestPerKey[T any](records []T, key func(T) string, metric func(T) float64) []T {
	bestIdx := make(map[string]int)
	keys := make([]string, 0)

	for i, record := range records {
		k := key(record)
		existing, seen := bestIdx[k]
		if !seen {
			bestIdx[k] = i
			keys = append(keys, k)
			continue
		}
		if metric(record) > metric(records[existing]) {
			bestIdx[k] = i
		}
	}

	best := make([]T, 0, len(keys))
	for _, k := range keys {
		best = append(best, records[bestIdx[k]])
	}
	return best
}

// MaxBy returns the record maximizing the metric across the whole sequence,
// false when the sequence is empty. First encountered wins ties.
func MaxBy[T any](records []T, metric func(T) float64) (T, bool) {
	var best T
	if len(records) == 0 {
		return best, false
	}
	best = records[0]
	for _, record := range records[1:] {
		if metric(record) > metric(best) {
			best = record
		}
	}
	return best, true
}

// Reorder moves the element at from to position to, returning a new slice.
// Out-of-range indices return the input unchanged.
func Reorder[T any](list []T, from, to int) []T {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return list
	}
	result := make([]T, 0, len(list))
	result = append(result, list...)
	moved := result[from]
	result = append(result[:from], result[from+1:]...)
	result = append(result[:to], append([]T{moved}, result[to:]...)...)
	return result
}
