package services

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is one slice of a paginated listing. Total counts every match, not just
// the ones in Items.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func newPage[T any](items []T, total int64, page, limit int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func validatePage(page, limit int) error {
	if page < 1 {
		return validationErrorf("page must be at least 1")
	}
	if limit < 1 || limit > MaxLimit {
		return validationErrorf("limit must be between 1 and %d", MaxLimit)
	}
	return nil
}
