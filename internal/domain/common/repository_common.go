package common

// Sort はソート指定の共通表現
type Sort struct {
	Column string    // カラム名（各ドメイン側で許可カラムをバリデート）
	Order  SortOrder // 昇順/降順
}

// SortOrder はソート順
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Page はオフセットページング指定
type Page struct {
	Number  int // 1-based
	PerPage int // 0 以下は実装側デフォルト
}

// PageResult はページング結果（ジェネリクスでアイテム型を受け取る）
type PageResult[T any] struct {
	Items      []T
	TotalCount int
	TotalPages int
	Page       int
	PerPage    int
}

const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

// NormalizePage はページ番号/件数を正規化し、limit/offset を返します。
func NormalizePage(p Page) (page int, limit int, offset int) {
	page = p.Number
	if page <= 0 {
		page = 1
	}
	limit = p.PerPage
	if limit <= 0 {
		limit = DefaultPerPage
	}
	if limit > MaxPerPage {
		limit = MaxPerPage
	}
	offset = (page - 1) * limit
	return
}

// ComputeTotalPages は合計件数と1ページあたり件数から総ページ数を計算します。
func ComputeTotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// SlicePage applies offset paging to an already filtered and sorted slice.
func SlicePage[T any](all []T, p Page) PageResult[T] {
	page, limit, offset := NormalizePage(p)
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	items := make([]T, 0, end-offset)
	items = append(items, all[offset:end]...)
	return PageResult[T]{
		Items:      items,
		TotalCount: total,
		TotalPages: ComputeTotalPages(total, limit),
		Page:       page,
		PerPage:    limit,
	}
}
