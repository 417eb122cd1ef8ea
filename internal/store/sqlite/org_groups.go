package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/store"
)

// CreateOrgGroup inserts a group. Titles are unique.
func (s *Store) CreateOrgGroup(ctx context.Context, g *domain.OrgGroup) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO org_groups (id, title, parent_id) VALUES (?, ?, ?)`,
		g.ID, g.Title, nullString(g.ParentID))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("org group title already exists")
	}
	if err != nil {
		return fmt.Errorf("insert org group: %w", err)
	}
	return nil
}

// GetOrgGroupByTitle retrieves a group by its exact title.
func (s *Store) GetOrgGroupByTitle(ctx context.Context, title string) (*domain.OrgGroup, error) {
	var (
		g      domain.OrgGroup
		parent sql.NullString
		ptitle sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT g.id, g.title, g.parent_id, pg.title
		FROM org_groups g
		LEFT JOIN org_groups pg ON pg.id = g.parent_id
		WHERE g.title = ?`, title,
	).Scan(&g.ID, &g.Title, &parent, &ptitle)
	if err != nil {
		return nil, notFound(err)
	}
	g.ParentID = parent.String
	g.ParentTitle = ptitle.String
	return &g, nil
}

// ListOrgGroups returns divisions first, then offices ordered by parent title and title.
func (s *Store) ListOrgGroups(ctx context.Context) ([]*domain.OrgGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.title, g.parent_id, pg.title
		FROM org_groups g
		LEFT JOIN org_groups pg ON pg.id = g.parent_id
		ORDER BY g.parent_id IS NOT NULL, pg.title, g.title`)
	if err != nil {
		return nil, fmt.Errorf("list org groups: %w", err)
	}
	defer rows.Close()

	groups := []*domain.OrgGroup{}
	for rows.Next() {
		var (
			g      domain.OrgGroup
			parent sql.NullString
			ptitle sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.Title, &parent, &ptitle); err != nil {
			return nil, err
		}
		g.ParentID = parent.String
		g.ParentTitle = ptitle.String
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

// ListChildGroupIDs returns the IDs of groups directly under parentID.
func (s *Store) ListChildGroupIDs(ctx context.Context, parentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM org_groups WHERE parent_id = ? ORDER BY title`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child groups: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
