package search

// ページサイズは画面ごとに独立した固定値。
// 管理画面の一覧と公開検索APIは意図的に統一していない。
const (
	// AdminPageLimit は管理画面レシピ一覧の1ページ件数。
	AdminPageLimit = 10
	// SearchPageLimit は検索APIの1ページ件数。
	SearchPageLimit = 9
)

// Pagination はページ番号・総ページ数・オフセットの計算結果を保持する。
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
	Limit       int `json:"limit"`
	Offset      int `json:"-"`
}

// Paginate はページ番号と総件数からページネーション情報を計算する。
// pageが1未満の場合は1として扱い、負のオフセットを発生させない。
// totalが0の場合はtotalPagesも0になる。
func Paginate(page, total, limit int) Pagination {
	if page < 1 {
		page = 1
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}
}
