package jsonapi

import (
	"net/url"
	"strconv"
)

// MaxPageSize caps page[size].
const MaxPageSize = 500

// Pagination describes one page of a collection of Total resources.
type Pagination struct {
	Total   int64
	Page    int // 1-based
	PerPage int
	BaseURL string // links keep this URL's other query parameters
}

// NewPagination clamps page and perPage to sane values.
func NewPagination(total int64, page, perPage int, baseURL string) *Pagination {
	return &Pagination{
		Total:   total,
		Page:    max(page, 1),
		PerPage: orDefault(perPage, 20),
		BaseURL: baseURL,
	}
}

func orDefault(n, def int) int {
	if n < 1 {
		return def
	}
	return n
}

// TotalPages is at least 1, so an empty collection still has a first page.
func (p *Pagination) TotalPages() int {
	per := int64(p.PerPage)
	return max(int((p.Total+per-1)/per), 1)
}

func (p *Pagination) HasPrev() bool { return p.Page > 1 }

func (p *Pagination) HasNext() bool { return p.Page < p.TotalPages() }

// Window returns the [start, end) bounds of the current page within a
// slice of length n.
func (p *Pagination) Window(n int) (int, int) {
	start := min((p.Page-1)*p.PerPage, n)
	return start, min(start+p.PerPage, n)
}

// Links returns self, first and last, plus prev and next where they exist.
func (p *Pagination) Links() *Links {
	last := p.TotalPages()
	links := &Links{
		Self:  p.pageURL(p.Page),
		First: p.pageURL(1),
		Last:  p.pageURL(last),
	}
	if p.HasPrev() {
		links.Prev = p.pageURL(p.Page - 1)
	}
	if p.HasNext() {
		links.Next = p.pageURL(p.Page + 1)
	}
	return links
}

func (p *Pagination) pageURL(page int) string {
	if p.BaseURL == "" {
		return ""
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return p.BaseURL
	}
	q := u.Query()
	q.Set("page[number]", strconv.Itoa(page))
	q.Set("page[size]", strconv.Itoa(p.PerPage))
	u.RawQuery = q.Encode()
	return u.String()
}

// Meta describes the page for the top-level meta object.
func (p *Pagination) Meta() Meta {
	return Meta{
		"total":    p.Total,
		"page":     p.Page,
		"per_page": p.PerPage,
		"pages":    p.TotalPages(),
	}
}

// ParsePaginationParams reads page[number] and page[size]. Missing or
// malformed values fall back to page 1 and defaultPerPage.
func ParsePaginationParams(query url.Values, defaultPerPage int) (page, perPage int) {
	page = positive(query.Get("page[number]"), 1)
	perPage = min(positive(query.Get("page[size]"), defaultPerPage), MaxPageSize)
	return page, perPage
}

func positive(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}
