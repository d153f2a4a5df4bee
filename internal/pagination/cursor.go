// Package pagination implements keyset (cursor) pagination over collections
// ordered by (primary key value descending, unique tie-break descending).
// Browsing never counts rows and never skips by offset; every page costs at
// most page size + 1 row fetches no matter how deep the cursor points.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is the composite resume position: the primary ordering value (its
// textual representation, e.g. an RFC3339 timestamp), the unique tie-break
// identifier, and the browse direction. Only the encoded token ever leaves
// the process.
type Cursor struct {
	Primary  string
	TieBreak string
	Reverse  bool
}

// Encode renders the cursor as an opaque base64 token. The direction marker
// is embedded so tokens are self-describing.
func (c Cursor) Encode() string {
	direction := "f"
	if c.Reverse {
		direction = "r"
	}
	raw := c.Primary + "|" + c.TieBreak + "|" + direction
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token produced by Encode. Decoding reproduces the exact
// (primary, tie-break, direction) triple that was encoded. Anything else —
// bad base64, wrong field count, unknown direction — yields ErrInvalidCursor
// and never panics.
func Decode(token string) (Cursor, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	parts := strings.Split(string(raw), "|")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return Cursor{}, ErrInvalidCursor
	}

	cursor := Cursor{Primary: parts[0], TieBreak: parts[1]}
	switch parts[2] {
	case "f":
	case "r":
		cursor.Reverse = true
	default:
		return Cursor{}, ErrInvalidCursor
	}
	return cursor, nil
}
