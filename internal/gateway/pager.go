package gateway

import (
	"net/url"
	"strconv"

	"github.com/Poper173/Kilamix/internal/api"
)

const (
	// DefaultVideoPageSize matches the backend's default for video listings.
	DefaultVideoPageSize = 10
	// DefaultUserPageSize matches the backend's default for admin user listings.
	DefaultUserPageSize = 20

	// maxPages caps accumulation loops so a misbehaving backend that keeps
	// returning full pages cannot spin the client forever.
	maxPages = 1000
)

// PageRequest selects a page of a listing endpoint.
type PageRequest struct {
	Page    int
	PerPage int
}

func (p PageRequest) normalize(defaultPerPage int) PageRequest {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = defaultPerPage
	}
	return p
}

func (p PageRequest) query() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("per_page", strconv.Itoa(p.PerPage))
	return q
}

// PageInfo describes the page that was actually returned.
type PageInfo struct {
	Page    int
	PerPage int
	// Count is the number of items in this page.
	Count int
	// LastPage is the server-reported final page number; zero when the
	// response carried no pagination meta.
	LastPage int
	// Total is the server-reported total item count; zero when unknown.
	Total int
}

// IsLast reports whether this page ends the listing. The server-supplied
// last page wins when present; otherwise a short page is taken as the end.
// The short-page heuristic can be off by one page in either direction, so
// callers must tolerate an empty final fetch.
func (p PageInfo) IsLast() bool {
	if p.LastPage > 0 {
		return p.Page >= p.LastPage
	}
	return p.Count < p.PerPage
}

func pageInfoFrom[T any](req PageRequest, env api.ListEnvelope[T]) PageInfo {
	info := PageInfo{
		Page:    req.Page,
		PerPage: req.PerPage,
		Count:   len(env.Data),
	}
	if env.Meta != nil {
		info.LastPage = env.Meta.LastPage
		info.Total = env.Meta.Total
		if env.Meta.CurrentPage > 0 {
			info.Page = env.Meta.CurrentPage
		}
	}
	return info
}
