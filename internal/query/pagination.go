package query

// Pagination is the metadata attached to paginated list responses. Next and
// Prev are present only when the corresponding page exists.
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	Limit         int  `json:"limit"`
	NumberOfPages int  `json:"numberOfPages"`
	Next          *int `json:"next,omitempty"`
	Prev          *int `json:"prev,omitempty"`
}

// Paginate computes the metadata for a total of count documents. The count
// must come from a query sharing the page query's predicate.
func Paginate(count, page, limit int) Pagination {
	if limit < 1 {
		limit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	pages := (count + limit - 1) / limit
	p := Pagination{
		CurrentPage:   page,
		Limit:         limit,
		NumberOfPages: pages,
	}
	if page < pages {
		next := page + 1
		p.Next = &next
	}
	if page > 1 {
		prev := page - 1
		// An out-of-range page must not advertise an out-of-range
		// predecessor.
		if prev > pages {
			prev = pages
		}
		if prev >= 1 {
			p.Prev = &prev
		}
	}
	return p
}
