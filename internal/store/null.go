package store

// scannable lets row scanners work across pgx and database/sql rows.
type scannable interface {
	Scan(dest ...any) error
}

// nullif maps empty strings to NULL on writes.
func nullif(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref maps NULL back to the empty string on reads.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
