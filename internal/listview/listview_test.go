package listview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	name, email, role string
}

func (r row) hay() string { return r.name + " " + r.email + " " + r.role }

func newTestView(per int) *View[row] {
	return New(per, row.hay, func(r row) string { return r.role })
}

func TestApplyReplacesMirror(t *testing.T) {
	v := newTestView(10)

	mk := func(n int) []row {
		out := make([]row, n)
		for i := range out {
			out[i] = row{name: fmt.Sprintf("user %d", i)}
		}
		return out
	}

	// successive snapshots of 3, 5 and 2 rows: displayed count always equals
	// the latest snapshot, never an accumulation
	for _, n := range []int{3, 5, 2} {
		v.Apply(mk(n))
		_, _, count := v.PageInfo()
		assert.Equal(t, n, count)
		assert.Len(t, v.Page(), n)
	}
}

func TestMatchesTokensAllRequired(t *testing.T) {
	assert.True(t, Matches("Jane Carer jane@x.com carer", "jane carer"))
	assert.True(t, Matches("Jane Carer jane@x.com carer", "JANE"))
	assert.True(t, Matches("anything", ""))
	assert.False(t, Matches("Jane Carer", "jane admin"))
}

func TestFilterComposition(t *testing.T) {
	v := newTestView(10)
	v.Apply([]row{
		{name: "Jane Carer", email: "jane@x.com", role: "carer"},
		{name: "Bob Admin", email: "bob@x.com", role: "admin"},
	})

	v.SetSearch("jane carer")
	v.SetRoleFilter("carer")
	require.Len(t, v.Filtered(), 1)
	assert.Equal(t, "Jane Carer", v.Filtered()[0].name)

	// same search but a non-matching role filter excludes the row
	v.SetRoleFilter("admin")
	assert.Empty(t, v.Filtered())
}

func TestRoleFilterExactCaseInsensitive(t *testing.T) {
	v := newTestView(10)
	v.Apply([]row{
		{name: "a", role: "Carer"},
		{name: "b", role: "carer"},
		{name: "c", role: "impaired"},
	})
	v.SetRoleFilter("CARER")
	assert.Len(t, v.Filtered(), 2)
}

func TestPagination(t *testing.T) {
	v := newTestView(10)
	rows := make([]row, 25)
	for i := range rows {
		rows[i] = row{name: fmt.Sprintf("user %02d", i)}
	}
	v.Apply(rows)

	page, total, count := v.PageInfo()
	assert.Equal(t, 1, page)
	assert.Equal(t, 3, total)
	assert.Equal(t, 25, count)
	assert.Len(t, v.Page(), 10)

	// clamped at the last page
	v.SetPage(99)
	page, _, _ = v.PageInfo()
	assert.Equal(t, 3, page)
	assert.Len(t, v.Page(), 5)

	// clamped at the first page
	v.PrevPage()
	v.SetPage(-4)
	page, _, _ = v.PageInfo()
	assert.Equal(t, 1, page)
}

func TestFilterChangeResetsPage(t *testing.T) {
	v := newTestView(5)
	rows := make([]row, 20)
	for i := range rows {
		rows[i] = row{name: fmt.Sprintf("user %02d", i), role: "carer"}
	}
	v.Apply(rows)
	v.SetPage(3)

	v.SetSearch("user")
	page, _, _ := v.PageInfo()
	assert.Equal(t, 1, page)

	v.SetPage(2)
	v.SetRoleFilter("carer")
	page, _, _ = v.PageInfo()
	assert.Equal(t, 1, page)
}

func TestPaginate(t *testing.T) {
	rows := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, Paginate(rows, 1, 10))
	assert.Equal(t, []int{10, 11}, Paginate(rows, 2, 10))
	// out-of-range pages clamp instead of failing
	assert.Equal(t, []int{10, 11}, Paginate(rows, 7, 10))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, Paginate(rows, 0, 10))
	assert.Empty(t, Paginate([]int{}, 1, 10))
}
