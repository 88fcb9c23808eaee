package repository

// SQLOption applies a configuration option to the SQLStore.
type SQLOption func(*SQLStore)

// WithTable overrides the table holding team-season rows.
func WithTable(table string) SQLOption {
	return func(s *SQLStore) {
		if table != "" {
			s.table = table
		}
	}
}
