package dto

import (
	"github.com/souzacred/crm-backend/internal/errs"
)

// PageRequest addresses one page of an ordered query. Callers pick exactly one
// addressing mode: a page number (offset-style, costs O(page*pageSize) reads
// server-side) or a cursor (the last document ID of the previous page).
type PageRequest struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Cursor   string `json:"cursor,omitempty"`
}

// Validate rejects requests that mix both addressing modes.
func (p PageRequest) Validate() error {
	if p.Page > 1 && p.Cursor != "" {
		return errs.NewValidationError("use either page or cursor, not both")
	}
	return nil
}

// Normalize fills defaults so stores only ever see a positive page and size.
func (p PageRequest) Normalize(defaultSize int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	return p
}

type PageMeta struct {
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	NextPage   *int   `json:"nextPage,omitempty"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// NewPageMeta derives pagination metadata for one returned page. A short page
// (fewer than pageSize items) marks the end of the result set: no next cursor,
// no next page.
func NewPageMeta(req PageRequest, total, returned int, lastID string) PageMeta {
	meta := PageMeta{
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: (total + req.PageSize - 1) / req.PageSize,
	}
	if returned == req.PageSize && lastID != "" {
		meta.NextCursor = lastID
		next := req.Page + 1
		meta.NextPage = &next
	}
	return meta
}

type Paginated[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}
