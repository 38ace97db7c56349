package util

const DefaultPageSize = 20
const MaxPageSize = 100

// Calculate converts a 1-based page and size into offset/limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return (page - 1) * size, size
}
