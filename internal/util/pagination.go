package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate clamps page/size to sane bounds and returns the search window.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}
