package query

import "sort"

// Paginate filters rows with match, orders them with less and returns the
// page selected by p. rows is not modified.
func Paginate[T any](rows []T, match func(*T) bool, less func(a, b *T) bool, p Params) Result[T] {
	filtered := make([]T, 0, len(rows))
	for i := range rows {
		if match == nil || match(&rows[i]) {
			filtered = append(filtered, rows[i])
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return less(&filtered[i], &filtered[j])
	})

	total := len(filtered)
	start := p.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := total
	if rest := total - start; p.Limit() < rest {
		end = start + max(p.Limit(), 0)
	}

	page := make([]T, end-start)
	copy(page, filtered[start:end])
	return NewResult(page, p, total)
}
