package pagination

import "math"

// RowOffset converts a zero-based page index into a row offset for a query.
// Negative input yields 0 and the product saturates at math.MaxInt.
func RowOffset(page, perPage int) int {
	if page <= 0 || perPage <= 0 {
		return 0
	}
	if page > math.MaxInt/perPage {
		return math.MaxInt
	}
	return page * perPage
}
