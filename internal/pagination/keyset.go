package pagination

import "context"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Keyed is implemented by rows that can report their cursor position.
type Keyed interface {
	PageKey() (primary, tieBreak string)
}

// FetchFunc retrieves up to limit rows sorting strictly after cursor in
// (primary desc, tie-break desc) order; a nil cursor means the start of the
// collection. Implementations must apply that order themselves.
type FetchFunc[T Keyed] func(ctx context.Context, cursor *Cursor, limit int) ([]T, error)

// Page is one window of results. Count is always null by contract: producing
// it would require the full-collection count this component exists to avoid.
type Page[T Keyed] struct {
	Results  []T     `json:"results"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Count    *int64  `json:"count"`
}

// Pager drives keyset pagination over any FetchFunc.
type Pager[T Keyed] struct {
	fetch       FetchFunc[T]
	defaultSize int
	maxSize     int
}

func NewPager[T Keyed](fetch FetchFunc[T], defaultSize, maxSize int) *Pager[T] {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	return &Pager[T]{fetch: fetch, defaultSize: defaultSize, maxSize: maxSize}
}

// Paginate resolves one page. It fetches size+1 rows to learn whether a next
// page exists, then trims the probe row.
//
// Sizes above the maximum clamp down; zero and negative sizes fall back to
// the default rather than clamping up to one.
//
// An undecodable token is treated as "no cursor" and yields the first page
// rather than failing the request — lenient by design. The previous link is
// set whenever a token was supplied, decodable or not; no query verifies
// that a predecessor row actually exists, so a stale or garbage token can
// produce a previous link on what is effectively the first page. That
// approximation is deliberate and kept.
func (p *Pager[T]) Paginate(ctx context.Context, token string, size int) (Page[T], error) {
	if size <= 0 {
		size = p.defaultSize
	}
	if size > p.maxSize {
		size = p.maxSize
	}

	// The raw token, not the decoded cursor, is the previous-page signal.
	tokenSupplied := token != ""
	var cursor *Cursor
	if tokenSupplied {
		if c, err := Decode(token); err == nil {
			cursor = &c
		}
	}

	rows, err := p.fetch(ctx, cursor, size+1)
	if err != nil {
		return Page[T]{}, err
	}

	hasNext := len(rows) > size
	if hasNext {
		rows = rows[:size]
	}

	page := Page[T]{Results: rows}
	if page.Results == nil {
		page.Results = []T{}
	}

	if hasNext && len(rows) > 0 {
		primary, tieBreak := rows[len(rows)-1].PageKey()
		next := Cursor{Primary: primary, TieBreak: tieBreak}.Encode()
		page.Next = &next
	}
	if tokenSupplied && len(rows) > 0 {
		primary, tieBreak := rows[0].PageKey()
		previous := Cursor{Primary: primary, TieBreak: tieBreak, Reverse: true}.Encode()
		page.Previous = &previous
	}

	return page, nil
}
