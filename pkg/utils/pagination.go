package utils

import "net/http"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// PageParams reads ?page= and ?per_page= with defaults and an upper bound.
func PageParams(r *http.Request) (page, perPage int) {
	page = ParseInt(r.URL.Query().Get("page"), 1)
	perPage = ParseInt(r.URL.Query().Get("per_page"), DefaultPerPage)
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}
