package pagination

import "gorm.io/gorm"

// Scope returns a gorm scope applying the fixed keyset order and, when a
// cursor is present, the resume constraint: rows whose (primary, tie-break)
// pair sorts strictly after the cursor's pair. The constraint is
//
//	primary <= cursor.primary
//	AND NOT (primary = cursor.primary AND tie_break >= cursor.tie_break)
//
// which indexes on (primary, tie_break) can serve without scanning skipped
// rows.
func Scope(cursor *Cursor, primaryCol, tieCol string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order(primaryCol + " DESC").Order(tieCol + " DESC")
		if cursor == nil {
			return db
		}
		return db.
			Where(primaryCol+" <= ?", cursor.Primary).
			Not(primaryCol+" = ? AND "+tieCol+" >= ?", cursor.Primary, cursor.TieBreak)
	}
}
