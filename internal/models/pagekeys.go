package models

import "time"

// Cursor positions for keyset pagination: primary ordering value first,
// unique tie-break second.

func (c Customer) PageKey() (string, string) {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID.String()
}

func (c Call) PageKey() (string, string) {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID.String()
}
