package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	evdom "devevent/internal/domain/event"
)

func TestBuildEventWhereClause(t *testing.T) {
	where, args := buildEventWhereClause(evdom.Filter{})
	assert.Equal(t, "", where)
	assert.Empty(t, args)

	online := evdom.ModeOnline
	where, args = buildEventWhereClause(evdom.Filter{SearchQuery: " 100%_go ", Tag: "go", Mode: &online})
	assert.Equal(t, "WHERE title ILIKE $1 AND $2 = ANY(tags) AND mode = $3", where)
	assert.Equal(t, []any{`%100\%\_go%`, "go", "online"}, args)

	where, args = buildEventWhereClause(evdom.Filter{Tag: "react"})
	assert.Equal(t, "WHERE $1 = ANY(tags)", where)
	assert.Equal(t, []any{"react"}, args)
}

func TestBuildEventOrderClause(t *testing.T) {
	cases := []struct {
		in   evdom.Sort
		want string
	}{
		{in: evdom.Sort{}, want: "ORDER BY created_at DESC, id ASC"},
		{in: evdom.Sort{Column: evdom.SortByTitle, Order: evdom.SortAsc}, want: "ORDER BY lower(title) ASC, id ASC"},
		{in: evdom.Sort{Column: evdom.SortByDate, Order: evdom.SortDesc}, want: "ORDER BY date DESC, time DESC, id ASC"},
		{in: evdom.Sort{Column: evdom.SortByCreatedAt}, want: "ORDER BY created_at ASC, id ASC"},
		{in: evdom.Sort{Column: "title; DROP TABLE events", Order: evdom.SortDesc}, want: "ORDER BY created_at DESC, id ASC"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, buildEventOrderClause(tc.in), "sort %+v", tc.in)
	}
}
