// Package pagination implements limit/offset paging shared by every list endpoint.
package pagination

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxOffset keeps Offset+Limit far from int overflow.
	MaxOffset = math.MaxInt32
)

type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page into the accepted range.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Offset > MaxOffset {
		p.Offset = MaxOffset
	}
	return p
}

// FromQuery reads ?limit= and ?offset=, ignoring malformed values.
func FromQuery(q url.Values) Page {
	var p Page
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		p.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		p.Offset = v
	}
	return p.Normalize()
}

// Envelope is the JSON shape of a paginated list.
type Envelope[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewEnvelope builds next/previous links relative to base, preserving its query.
func NewEnvelope[T any](base *url.URL, p Page, total int64, results []T) Envelope[T] {
	p = p.Normalize()
	if results == nil {
		results = []T{}
	}
	env := Envelope[T]{Count: total, Results: results}
	if base == nil {
		return env
	}
	if int64(p.Offset+p.Limit) < total {
		s := link(base, p.Limit, p.Offset+p.Limit)
		env.Next = &s
	}
	if p.Offset > 0 {
		prev := p.Offset - p.Limit
		if prev < 0 {
			prev = 0
		}
		s := link(base, p.Limit, prev)
		env.Previous = &s
	}
	return env
}

func link(base *url.URL, limit, offset int) string {
	u := *base
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
