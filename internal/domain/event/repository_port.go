// internal/domain/event/repository_port.go
package event

import (
	"context"
	"errors"
	"sort"
	"strings"

	common "devevent/internal/domain/common"
)

// フィルタ/検索条件
type Filter struct {
	// title の部分一致（大文字小文字を区別しない）
	SearchQuery string

	Tag  string
	Mode *Mode
}

// Matches applies the filter in memory (used by the document stores).
func (f Filter) Matches(e Event) bool {
	if q := strings.ToLower(strings.TrimSpace(f.SearchQuery)); q != "" {
		if !strings.Contains(strings.ToLower(e.Title), q) {
			return false
		}
	}
	if t := strings.TrimSpace(f.Tag); t != "" && !e.HasTag(t) {
		return false
	}
	if f.Mode != nil && e.Mode != *f.Mode {
		return false
	}
	return true
}

type Sort = common.Sort
type SortOrder = common.SortOrder
type Page = common.Page
type PageResult[T any] = common.PageResult[T]

const (
	SortAsc  = common.SortAsc
	SortDesc = common.SortDesc
)

// Sortable columns.
const (
	SortByCreatedAt = "createdAt"
	SortByDate      = "date"
	SortByTitle     = "title"
)

// DefaultSort: newest first.
var DefaultSort = Sort{Column: SortByCreatedAt, Order: SortDesc}

// SortEvents orders events in place. Unknown columns fall back to DefaultSort.
func SortEvents(items []Event, s Sort) {
	col := s.Column
	order := s.Order
	switch col {
	case SortByCreatedAt, SortByDate, SortByTitle:
	default:
		col, order = DefaultSort.Column, DefaultSort.Order
	}
	desc := order == SortDesc

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var less, equal bool
		switch col {
		case SortByDate:
			ka, kb := a.Date+" "+a.Time, b.Date+" "+b.Time
			less, equal = ka < kb, ka == kb
		case SortByTitle:
			ka, kb := strings.ToLower(a.Title), strings.ToLower(b.Title)
			less, equal = ka < kb, ka == kb
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			return a.ID < b.ID
		}
		if desc {
			return !less
		}
		return less
	})
}

// SlicePage pages an already filtered and sorted result.
func SlicePage(all []Event, p Page) PageResult[Event] {
	return common.SlicePage(all, p)
}

// 契約上の代表的エラー
var (
	ErrNotFound = errors.New("event: not found")
	ErrConflict = errors.New("event: conflict")
)

// DefaultSimilarLimit caps ListSimilar when the caller passes limit <= 0.
const DefaultSimilarLimit = 6

// Repository ポート（契約）
type Repository interface {
	// 一覧取得
	List(ctx context.Context, filter Filter, sort Sort, page Page) (PageResult[Event], error)

	// ListSimilar returns events sharing at least one tag with ev, excluding ev itself.
	ListSimilar(ctx context.Context, ev Event, limit int) ([]Event, error)

	// 取得
	GetByID(ctx context.Context, id string) (Event, error)
	GetBySlug(ctx context.Context, slug string) (Event, error)
	ExistsSlug(ctx context.Context, slug string) (bool, error)

	// 変更
	// Create assigns ID when empty. Duplicate slug → ErrConflict.
	Create(ctx context.Context, e Event) (Event, error)
	Delete(ctx context.Context, id string) error
}
