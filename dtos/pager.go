package dtos

// DefaultPageSize is the page size of the batch history and product lists.
const DefaultPageSize = 10

// Pager describes a 1-indexed page of a server-paginated list. The server's
// clamped answer is trusted; Pager never invents pages beyond TotalPages.
type Pager struct {
	Page       int
	Limit      int
	TotalPages int
	TotalItems int
}

// NewPager normalizes the values reported by the backend.
func NewPager(page, limit, totalPages, totalItems int) Pager {
	if limit < 1 {
		limit = DefaultPageSize
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}
	return Pager{Page: page, Limit: limit, TotalPages: totalPages, TotalItems: totalItems}
}

func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

func (p Pager) HasPrev() bool { return p.Page > 1 }

// Next returns the following page, or the current one on the last page.
func (p Pager) Next() int {
	if p.HasNext() {
		return p.Page + 1
	}
	return p.Page
}

// Prev returns the previous page, or 1.
func (p Pager) Prev() int {
	if p.HasPrev() {
		return p.Page - 1
	}
	return 1
}

// Range returns the 1-based item bounds shown as "showing from to to".
func (p Pager) Range() (from, to int) {
	if p.TotalItems == 0 {
		return 0, 0
	}
	from = (p.Page-1)*p.Limit + 1
	to = p.Page * p.Limit
	if to > p.TotalItems {
		to = p.TotalItems
	}
	if from > to {
		from = to
	}
	return from, to
}

// Window returns at most size page numbers centred on the current page.
func (p Pager) Window(size int) []int {
	if size < 1 {
		return nil
	}
	start := p.Page - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if end > p.TotalPages {
		end = p.TotalPages
	}
	if end-start+1 < size {
		start = end - size + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// PageInfo is the JSON form of a Pager.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	TotalItems int   `json:"totalItems"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
	From       int   `json:"from"`
	To         int   `json:"to"`
	Pages      []int `json:"pages"`
}

func (p Pager) Info() PageInfo {
	from, to := p.Range()
	return PageInfo{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
		HasNext:    p.HasNext(),
		HasPrev:    p.HasPrev(),
		From:       from,
		To:         to,
		Pages:      p.Window(5),
	}
}
