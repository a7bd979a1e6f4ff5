package listview

import "slices"

// ApplyFilter projects source under criteria c. The input slice is never
// modified; the result is stably sorted so ties keep source order.
func ApplyFilter[T any, C any](source []T, c C, match func(T, C) bool, compare func(a, b T, c C) int) []T {
	out := make([]T, 0, len(source))
	for _, rec := range source {
		if match == nil || match(rec, c) {
			out = append(out, rec)
		}
	}
	if compare != nil {
		slices.SortStableFunc(out, func(a, b T) int {
			return compare(a, b, c)
		})
	}
	return out
}
