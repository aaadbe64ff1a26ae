package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the page to at least 1 and the limit into
// [1, MaxLimit], substituting defaultLimit when none was provided.
func (p Params) Normalize(defaultLimit int) Params {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	out := p
	if out.Page <= 0 {
		out.Page = 1
	}
	if out.Limit <= 0 {
		out.Limit = defaultLimit
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}
	return out
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta reports the pagination envelope returned alongside each page.
type Meta struct {
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// NewMeta derives the meta block for a filtered row count. TotalPages is
// ceil(totalItems/limit).
func NewMeta(totalItems int64, p Params) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = int((totalItems + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		TotalItems:   totalItems,
		TotalPages:   pages,
		CurrentPage:  p.Page,
		ItemsPerPage: p.Limit,
	}
}
