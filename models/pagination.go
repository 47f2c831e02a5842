package models

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageRequest is a normalized, 1-indexed page selection.
type PageRequest struct {
	Page  int
	Limit int
}

func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(p PageRequest, total int64) Pagination {
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}
