package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/id"
	"github.com/listenupapp/staff-directory/internal/slug"
	"github.com/listenupapp/staff-directory/internal/store"
)

// tagColumns must match the scan order in scanTag.
const tagColumns = `id, name, slug, created_at`

func scanTag(row scanner) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &createdAt); err != nil {
		return nil, err
	}
	var err error
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &t, nil
}

// createTag inserts a new tag. Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) createTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (id, name, slug, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Slug, formatTime(t.CreatedAt))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// GetTagBySlug retrieves a tag by its slug.
func (s *Store) GetTagBySlug(ctx context.Context, tagSlug string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE slug = ?`, tagSlug)
	t, err := scanTag(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// GetTagsBySlugs returns the tags matching slugs, in slug order.
// Unknown slugs are skipped.
func (s *Store) GetTagsBySlugs(ctx context.Context, slugs []string) ([]*domain.Tag, error) {
	if len(slugs) == 0 {
		return []*domain.Tag{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE slug IN (`+placeholders(len(slugs))+`) ORDER BY slug`,
		stringArgs(slugs)...)
	if err != nil {
		return nil, fmt.Errorf("get tags by slugs: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// FindOrCreateTag finds the tag whose slug matches name or creates it,
// keeping name as the display form. Returns (tag, created, error).
func (s *Store) FindOrCreateTag(ctx context.Context, name string) (*domain.Tag, bool, error) {
	name = strings.TrimSpace(name)
	tagSlug := slug.Make(name)
	if tagSlug == "" {
		return nil, false, fmt.Errorf("tag %q has an empty slug", name)
	}

	existing, err := s.GetTagBySlug(ctx, tagSlug)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, false, fmt.Errorf("generate tag id: %w", err)
	}

	t := &domain.Tag{
		ID:        tagID,
		Name:      name,
		Slug:      tagSlug,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.createTag(ctx, t); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Another request created it first.
			existing, err := s.GetTagBySlug(ctx, tagSlug)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("insert tag: %w", err)
	}

	return t, true, nil
}

// PopularTags returns tags applied at least minCount times to active
// people across the directory categories.
func (s *Store) PopularTags(ctx context.Context, minCount int) ([]domain.TagCount, error) {
	args := stringArgs(domain.AllCategories)
	args = append([]any{domain.ContentTypePerson}, args...)
	args = append(args, minCount)

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.created_at, COUNT(ti.id) AS n
		FROM tags t
		JOIN tagged_items ti ON ti.tag_id = t.id AND ti.content_type = ?
		JOIN people p ON p.id = ti.object_id
		JOIN accounts a ON a.id = p.account_id AND a.is_active = 1
		WHERE ti.category IN (`+placeholders(len(domain.AllCategories))+`)
		GROUP BY t.id
		HAVING n >= ?
		ORDER BY n DESC, t.name COLLATE NOCASE, t.slug`, args...)
	if err != nil {
		return nil, fmt.Errorf("popular tags: %w", err)
	}
	defer rows.Close()

	return scanTagCounts(rows)
}

type rowsScanner interface {
	scanner
	Next() bool
	Err() error
}

func scanTagCounts(rows rowsScanner) ([]domain.TagCount, error) {
	out := []domain.TagCount{}
	for rows.Next() {
		var (
			tc        domain.TagCount
			createdAt string
		)
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Slug, &createdAt, &tc.Count); err != nil {
			return nil, err
		}
		var err error
		if tc.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
