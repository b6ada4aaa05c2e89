package utils

import (
	"math"
	"net/http"
	"strconv"
)

type QueryOptions struct {
	Page     int
	Limit    int
	Search   string
	Approved bool
}

// Skip is the number of documents to pass over for Page.
func (o QueryOptions) Skip() int64 {
	return int64(o.Page-1) * int64(o.Limit)
}

// ParseQueryOptions reads page, limit, search and approved. Missing or
// non-positive page/limit fall back to 1 and 10, and so does a page whose
// skip would not fit in an int64. Search is kept verbatim: only an absent or
// empty value matches everything.
func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}

	if int64(page-1) > math.MaxInt64/int64(limit) {
		page = 1
	}

	approved, _ := strconv.ParseBool(q.Get("approved"))

	return QueryOptions{
		Page:     page,
		Limit:    limit,
		Search:   q.Get("search"),
		Approved: approved,
	}
}
