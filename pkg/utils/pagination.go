package utils

import (
	"net/http"
	"strconv"
	"strings"
)

// GetPaginationParams reads page and limit query params, defaulting to page 1
// with 20 items and capping limit at 100.
func GetPaginationParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

var sortableColumns = map[string]string{
	"created_at": "created_at",
	"amount":     "amount",
}

// AddSorting appends an ORDER BY clause from sortBy/sortOrder query params.
// Only whitelisted columns are accepted; anything else leaves the query
// untouched.
func AddSorting(r *http.Request, query string) string {
	col, ok := sortableColumns[r.URL.Query().Get("sortBy")]
	if !ok {
		return query
	}
	order := "DESC"
	if strings.EqualFold(r.URL.Query().Get("sortOrder"), "asc") {
		order = "ASC"
	}
	return query + " ORDER BY " + col + " " + order
}
