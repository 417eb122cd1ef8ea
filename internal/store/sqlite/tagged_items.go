package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/store"
)

// objectChunkSize bounds the IN list per query, well under SQLite's variable limit.
const objectChunkSize = 500

const taggedItemColumns = `ti.id, ti.tag_id, ti.object_id, ti.content_type, ti.category, ti.creator_id, ti.created_at`

func scanTaggedItemInto(item *domain.TaggedItem, creator *sql.NullString, createdAt *string) []any {
	return []any{&item.ID, &item.TagID, &item.ObjectID, &item.ContentType, &item.Category, creator, createdAt}
}

func finishTaggedItem(item *domain.TaggedItem, creator sql.NullString, createdAt string) error {
	item.CreatorID = creator.String
	t, err := parseTime(createdAt)
	if err != nil {
		return fmt.Errorf("parse created_at: %w", err)
	}
	item.CreatedAt = t
	return nil
}

func scanTaggedItem(row scanner) (*domain.TaggedItem, error) {
	var (
		item      domain.TaggedItem
		creator   sql.NullString
		createdAt string
	)
	if err := row.Scan(scanTaggedItemInto(&item, &creator, &createdAt)...); err != nil {
		return nil, err
	}
	if err := finishTaggedItem(&item, creator, createdAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddTaggedItem inserts the association unless (tag, object, content type,
// category) already exists. Returns the stored row and whether it was new.
// The uniqueness check lives in the table constraint so concurrent writers
// can not produce duplicates.
func (s *Store) AddTaggedItem(ctx context.Context, item *domain.TaggedItem) (*domain.TaggedItem, bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tagged_items (id, tag_id, object_id, content_type, category, creator_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tag_id, object_id, content_type, category) DO NOTHING`,
		item.ID, item.TagID, item.ObjectID, item.ContentType, string(item.Category),
		nullString(item.CreatorID), formatTime(item.CreatedAt),
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert tagged item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 1 {
		return item, true, nil
	}

	existing, err := s.GetTaggedItem(ctx, item.ObjectID, item.TagID, item.Category)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// FindTaggedItemByTagName finds the association on objectID in category whose
// tag name matches name ignoring case.
func (s *Store) FindTaggedItemByTagName(ctx context.Context, objectID string, category domain.TagCategory, name string) (*domain.TaggedItem, *domain.Tag, error) {
	var (
		item      domain.TaggedItem
		creator   sql.NullString
		createdAt string
		tagCreate string
		tag       domain.Tag
	)
	dest := scanTaggedItemInto(&item, &creator, &createdAt)
	dest = append(dest, &tag.ID, &tag.Name, &tag.Slug, &tagCreate)

	err := s.db.QueryRowContext(ctx, `
		SELECT `+taggedItemColumns+`, t.id, t.name, t.slug, t.created_at
		FROM tagged_items ti
		JOIN tags t ON t.id = ti.tag_id
		WHERE ti.content_type = ? AND ti.object_id = ? AND ti.category = ?
		  AND t.name = ? COLLATE NOCASE
		LIMIT 1`,
		domain.ContentTypePerson, objectID, string(category), name,
	).Scan(dest...)
	if err != nil {
		return nil, nil, notFound(err)
	}

	if err := finishTaggedItem(&item, creator, createdAt); err != nil {
		return nil, nil, err
	}
	if tag.CreatedAt, err = parseTime(tagCreate); err != nil {
		return nil, nil, fmt.Errorf("parse tag created_at: %w", err)
	}
	return &item, &tag, nil
}

// GetTaggedItem resolves the unique (object, tag, category) association.
func (s *Store) GetTaggedItem(ctx context.Context, objectID, tagID string, category domain.TagCategory) (*domain.TaggedItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taggedItemColumns+`
		FROM tagged_items ti
		WHERE ti.content_type = ? AND ti.object_id = ? AND ti.tag_id = ? AND ti.category = ?`,
		domain.ContentTypePerson, objectID, tagID, string(category))
	item, err := scanTaggedItem(row)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

// DeleteTaggedItem hard-deletes an association.
func (s *Store) DeleteTaggedItem(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tagged_items WHERE id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("delete tagged item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ObjectIDsForTag returns the people carrying tagID in any category.
func (s *Store) ObjectIDsForTag(ctx context.Context, tagID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT object_id FROM tagged_items
		WHERE tag_id = ? AND content_type = ?`,
		tagID, domain.ContentTypePerson)
	if err != nil {
		return nil, fmt.Errorf("object ids for tag: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var objectID string
		if err := rows.Scan(&objectID); err != nil {
			return nil, err
		}
		ids = append(ids, objectID)
	}
	return ids, rows.Err()
}

// TagCountsForObjects counts associations per tag across objectIDs limited to
// categories. The result is sorted with domain.SortTagCounts.
func (s *Store) TagCountsForObjects(ctx context.Context, objectIDs []string, categories []domain.TagCategory) ([]domain.TagCount, error) {
	if len(objectIDs) == 0 || len(categories) == 0 {
		return []domain.TagCount{}, nil
	}

	merged := make(map[string]domain.TagCount)
	for chunk := range slices.Chunk(objectIDs, objectChunkSize) {
		args := []any{domain.ContentTypePerson}
		args = append(args, stringArgs(chunk)...)
		args = append(args, stringArgs(categories)...)

		rows, err := s.db.QueryContext(ctx, `
			SELECT t.id, t.name, t.slug, t.created_at, COUNT(ti.id)
			FROM tagged_items ti
			JOIN tags t ON t.id = ti.tag_id
			WHERE ti.content_type = ?
			  AND ti.object_id IN (`+placeholders(len(chunk))+`)
			  AND ti.category IN (`+placeholders(len(categories))+`)
			GROUP BY t.id`, args...)
		if err != nil {
			return nil, fmt.Errorf("tag counts: %w", err)
		}

		counts, err := scanTagCounts(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		for _, tc := range counts {
			if prev, ok := merged[tc.ID]; ok {
				tc.Count += prev.Count
			}
			merged[tc.ID] = tc
		}
	}

	out := slices.Collect(maps.Values(merged))
	domain.SortTagCounts(out)
	return out, nil
}

// ProfileTagRows returns every association on a profile in one category,
// joined with the tag and its creator account when it still exists.
func (s *Store) ProfileTagRows(ctx context.Context, objectID string, category domain.TagCategory) ([]store.ProfileTagRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taggedItemColumns+`, t.id, t.name, t.slug, t.created_at,
		       a.id IS NOT NULL, COALESCE(a.first_name, ''), COALESCE(a.last_name, '')
		FROM tagged_items ti
		JOIN tags t ON t.id = ti.tag_id
		LEFT JOIN accounts a ON a.id = ti.creator_id
		WHERE ti.content_type = ? AND ti.object_id = ? AND ti.category = ?
		ORDER BY t.name COLLATE NOCASE, ti.created_at`,
		domain.ContentTypePerson, objectID, string(category))
	if err != nil {
		return nil, fmt.Errorf("profile tags: %w", err)
	}
	defer rows.Close()

	out := []store.ProfileTagRow{}
	for rows.Next() {
		var (
			r          store.ProfileTagRow
			creator    sql.NullString
			createdAt  string
			tagCreated string
			first      string
			last       string
		)
		dest := scanTaggedItemInto(&r.Item, &creator, &createdAt)
		dest = append(dest, &r.Tag.ID, &r.Tag.Name, &r.Tag.Slug, &tagCreated, &r.CreatorPresent, &first, &last)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if err := finishTaggedItem(&r.Item, creator, createdAt); err != nil {
			return nil, err
		}
		if r.Tag.CreatedAt, err = parseTime(tagCreated); err != nil {
			return nil, fmt.Errorf("parse tag created_at: %w", err)
		}
		if r.CreatorPresent {
			r.CreatorName = (&domain.Account{FirstName: first, LastName: last}).FullName()
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TagNamesForObject returns the distinct tag names on a profile across all categories.
func (s *Store) TagNamesForObject(ctx context.Context, objectID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT t.name
		FROM tagged_items ti
		JOIN tags t ON t.id = ti.tag_id
		WHERE ti.content_type = ? AND ti.object_id = ?
		ORDER BY t.name COLLATE NOCASE`,
		domain.ContentTypePerson, objectID)
	if err != nil {
		return nil, fmt.Errorf("tag names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
