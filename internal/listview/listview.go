package listview

import "strings"

// Fixed page sizes used by the console's tables.
const (
	UsersPerPage    = 10
	FAQsPerPage     = 5
	FeedbackPerPage = 4
	LogsPerPage     = 10
)

// View maintains the client-side mirror of a live collection snapshot with
// free-text search, an optional role filter, and fixed-size pagination.
// Each Apply replaces the whole mirror with the snapshot's contents in the
// delivered order; nothing is accumulated across notifications.
//
// searchText returns the concatenation of a row's searchable fields; roleOf
// may be nil for tables without a role column.
type View[T any] struct {
	rows       []T
	searchText func(T) string
	roleOf     func(T) string

	search string
	role   string
	page   int
	per    int
}

func New[T any](perPage int, searchText func(T) string, roleOf func(T) string) *View[T] {
	if perPage <= 0 {
		perPage = UsersPerPage
	}
	return &View[T]{searchText: searchText, roleOf: roleOf, page: 1, per: perPage}
}

// Apply replaces the mirror with a new snapshot. A snapshot of a different
// size resets to the first page (matching the console's behaviour when rows
// appear or disappear); otherwise the current page is clamped.
func (v *View[T]) Apply(snapshot []T) {
	if len(snapshot) != len(v.rows) {
		v.page = 1
	}
	v.rows = snapshot
	v.clampPage()
}

// SetSearch updates the free-text query and resets to page 1.
func (v *View[T]) SetSearch(q string) {
	v.search = q
	v.page = 1
}

// SetRoleFilter updates the role filter (exact, case-insensitive) and resets
// to page 1. Empty means no filter.
func (v *View[T]) SetRoleFilter(role string) {
	v.role = role
	v.page = 1
}

// Matches reports whether every whitespace-separated token of query is a
// case-insensitive substring of hay. An empty query matches everything.
func Matches(hay, query string) bool {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return true
	}
	h := strings.ToLower(hay)
	for _, t := range tokens {
		if !strings.Contains(h, t) {
			return false
		}
	}
	return true
}

// Filtered returns the rows matching both the search query and the role
// filter, in mirror order.
func (v *View[T]) Filtered() []T {
	role := strings.ToLower(strings.TrimSpace(v.role))
	out := make([]T, 0, len(v.rows))
	for _, r := range v.rows {
		if role != "" {
			if v.roleOf == nil || strings.ToLower(strings.TrimSpace(v.roleOf(r))) != role {
				continue
			}
		}
		if !Matches(v.searchText(r), v.search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Page returns the rows of the current page.
func (v *View[T]) Page() []T {
	f := v.Filtered()
	total := totalPages(len(f), v.per)
	page := v.page
	if page > total {
		page = total
	}
	first := (page - 1) * v.per
	last := first + v.per
	if first > len(f) {
		first = len(f)
	}
	if last > len(f) {
		last = len(f)
	}
	return f[first:last]
}

// SetPage moves to the given page, clamped to [1, TotalPages].
func (v *View[T]) SetPage(p int) {
	v.page = p
	v.clampPage()
}

func (v *View[T]) NextPage() { v.SetPage(v.page + 1) }
func (v *View[T]) PrevPage() { v.SetPage(v.page - 1) }

// PageInfo returns the current page number, the total page count (at least
// 1), and the filtered row count.
func (v *View[T]) PageInfo() (page, total, count int) {
	count = len(v.Filtered())
	total = totalPages(count, v.per)
	page = v.page
	if page > total {
		page = total
	}
	return page, total, count
}

// Len returns the size of the unfiltered mirror.
func (v *View[T]) Len() int { return len(v.rows) }

func (v *View[T]) clampPage() {
	if v.page < 1 {
		v.page = 1
	}
	if t := totalPages(len(v.Filtered()), v.per); v.page > t {
		v.page = t
	}
}

func totalPages(count, per int) int {
	t := (count + per - 1) / per
	if t < 1 {
		t = 1
	}
	return t
}

// Paginate slices rows for a 1-based page of the given size without any view
// state. Used by one-shot reads (conversation logs).
func Paginate[T any](rows []T, page, perPage int) []T {
	if perPage <= 0 {
		perPage = LogsPerPage
	}
	total := totalPages(len(rows), perPage)
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	first := (page - 1) * perPage
	last := first + perPage
	if first > len(rows) {
		first = len(rows)
	}
	if last > len(rows) {
		last = len(rows)
	}
	return rows[first:last]
}
