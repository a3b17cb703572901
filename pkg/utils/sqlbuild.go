package utils

import (
	"strconv"
	"strings"
)

// Args accumulates positional arguments for hand-written Postgres SQL.
// Add returns the placeholder ($1, $2, ...) for the appended value.
type Args struct {
	vals []any
}

func (a *Args) Add(v any) string {
	a.vals = append(a.vals, v)
	return "$" + strconv.Itoa(len(a.vals))
}

func (a *Args) Values() []any { return a.vals }

// Where joins conditions with AND, returning "" when there are none.
func Where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// Window returns a copy of all[skip:skip+limit], clamped to the slice bounds.
// In-memory repositories use it to mirror OFFSET/LIMIT.
func Window[T any](all []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) || limit <= 0 {
		return []T{}
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]T, end-skip)
	copy(out, all[skip:end])
	return out
}
