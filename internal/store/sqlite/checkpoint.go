package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GetDirectoryCheckpoint returns the most recent change across profiles,
// tag associations and thanks notes. An empty directory returns the zero time.
func (s *Store) GetDirectoryCheckpoint(ctx context.Context) (time.Time, error) {
	var maxUpdated sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(ts) FROM (
			SELECT MAX(updated_at) AS ts FROM people
			UNION ALL
			SELECT MAX(created_at) FROM tagged_items
			UNION ALL
			SELECT MAX(created_at) FROM praise
		)`).Scan(&maxUpdated)
	if err != nil {
		return time.Time{}, fmt.Errorf("query directory checkpoint: %w", err)
	}

	if !maxUpdated.Valid || maxUpdated.String == "" {
		return time.Time{}, nil
	}

	t, err := parseTime(maxUpdated.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse checkpoint time: %w", err)
	}
	return t, nil
}
