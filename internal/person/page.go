package person

import "fmt"

// SortOrder is a single sort instruction, e.g. {Field: "name", Desc: false}.
type SortOrder struct {
	Field string
	Desc  bool
}

// PageRequest describes one page of a listing. Page numbers are
// zero-based.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Validate checks the request against the configured size ceiling.
func (r PageRequest) Validate(maxSize int) error {
	if r.Page < 0 {
		return fmt.Errorf("%w: page %d", ErrInvalidPageRequest, r.Page)
	}
	if r.Size < 1 || r.Size > maxSize {
		return fmt.Errorf("%w: size %d (max %d)", ErrInvalidPageRequest, r.Size, maxSize)
	}
	return nil
}

// Offset returns the row offset for the request.
func (r PageRequest) Offset() int { return r.Page * r.Size }

// Page is one slice of a listing plus the totals needed to build
// navigation links.
type Page struct {
	Content       []Person `json:"content"`
	Number        int      `json:"number"`
	Size          int      `json:"size"`
	TotalElements int64    `json:"total_elements"`
	TotalPages    int      `json:"total_pages"`
}

// NewPage assembles a Page from a content slice and a total count.
func NewPage(content []Person, req PageRequest, total int64) Page {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page{
		Content:       content,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// HasNext reports whether a page after this one exists.
func (p Page) HasNext() bool { return p.Number+1 < p.TotalPages }

// HasPrev reports whether a page before this one exists.
func (p Page) HasPrev() bool { return p.Number > 0 }
