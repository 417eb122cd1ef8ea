package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/store"
)

// personSelect joins the owning account. Must match scanPerson.
const personSelect = `
	SELECT p.id, p.account_id, p.stub, p.title, p.hide_profile, p.allow_tagging,
	       p.org_group_id, p.office_phone, p.mobile_phone, p.office_location,
	       p.room_number, p.about_me, p.what_i_do, p.current_projects,
	       p.stuff_ive_done, p.things_im_good_at, p.updated_at,
	       a.id, a.email, a.first_name, a.last_name, a.is_active
	FROM people p
	JOIN accounts a ON a.id = p.account_id`

func scanPerson(row scanner) (*domain.Person, error) {
	var (
		p         domain.Person
		a         domain.Account
		orgGroup  sql.NullString
		updatedAt string
	)

	err := row.Scan(
		&p.ID, &p.AccountID, &p.Stub, &p.Title, &p.HideProfile, &p.AllowTagging,
		&orgGroup, &p.Contact.OfficePhone, &p.Contact.MobilePhone, &p.Contact.OfficeLocation,
		&p.Contact.RoomNumber, &p.Bio.AboutMe, &p.Bio.WhatIDo, &p.Bio.CurrentProjects,
		&p.Bio.StuffIveDone, &p.Bio.ThingsImGoodAt, &updatedAt,
		&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.IsActive,
	)
	if err != nil {
		return nil, err
	}

	p.OrgGroupID = orgGroup.String
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	p.Account = &a
	return &p, nil
}

// CreatePerson inserts a profile. Stubs and accounts are unique.
func (s *Store) CreatePerson(ctx context.Context, p *domain.Person) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO people (
			id, account_id, stub, title, hide_profile, allow_tagging, org_group_id,
			office_phone, mobile_phone, office_location, room_number,
			about_me, what_i_do, current_projects, stuff_ive_done, things_im_good_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AccountID, p.Stub, p.Title, p.HideProfile, p.AllowTagging, nullString(p.OrgGroupID),
		p.Contact.OfficePhone, p.Contact.MobilePhone, p.Contact.OfficeLocation, p.Contact.RoomNumber,
		p.Bio.AboutMe, p.Bio.WhatIDo, p.Bio.CurrentProjects, p.Bio.StuffIveDone, p.Bio.ThingsImGoodAt,
		formatTime(p.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("profile stub or account already taken")
	}
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// UpdatePerson writes every mutable profile field.
func (s *Store) UpdatePerson(ctx context.Context, p *domain.Person) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE people SET
			title = ?, hide_profile = ?, allow_tagging = ?, org_group_id = ?,
			office_phone = ?, mobile_phone = ?, office_location = ?, room_number = ?,
			about_me = ?, what_i_do = ?, current_projects = ?, stuff_ive_done = ?,
			things_im_good_at = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.HideProfile, p.AllowTagging, nullString(p.OrgGroupID),
		p.Contact.OfficePhone, p.Contact.MobilePhone, p.Contact.OfficeLocation, p.Contact.RoomNumber,
		p.Bio.AboutMe, p.Bio.WhatIDo, p.Bio.CurrentProjects, p.Bio.StuffIveDone,
		p.Bio.ThingsImGoodAt, formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetPersonByStub retrieves a profile by its URL handle.
func (s *Store) GetPersonByStub(ctx context.Context, stub string) (*domain.Person, error) {
	return s.getPerson(ctx, `p.stub = ?`, stub)
}

// GetPersonByAccount retrieves the profile owned by an account.
func (s *Store) GetPersonByAccount(ctx context.Context, accountID string) (*domain.Person, error) {
	return s.getPerson(ctx, `p.account_id = ?`, accountID)
}

// GetPersonByEmail matches the owning account's email case-insensitively.
func (s *Store) GetPersonByEmail(ctx context.Context, email string) (*domain.Person, error) {
	return s.getPerson(ctx, `a.email = ? COLLATE NOCASE`, email)
}

func (s *Store) getPerson(ctx context.Context, where string, arg any) (*domain.Person, error) {
	row := s.db.QueryRowContext(ctx, personSelect+` WHERE `+where, arg)
	p, err := scanPerson(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// ListPeople returns profiles matching q.
func (s *Store) ListPeople(ctx context.Context, q store.PeopleQuery) ([]*domain.Person, error) {
	if q.IDs != nil && len(q.IDs) == 0 {
		return []*domain.Person{}, nil
	}

	var (
		where []string
		args  []any
	)
	// ID sets travel as one JSON array so large filters stay under
	// SQLite's bound-variable limit.
	if q.IDs != nil {
		ids, err := jsonArray(q.IDs)
		if err != nil {
			return nil, err
		}
		where = append(where, `p.id IN (SELECT value FROM json_each(?))`)
		args = append(args, ids)
	}
	if len(q.OrgGroupIDs) > 0 {
		ids, err := jsonArray(q.OrgGroupIDs)
		if err != nil {
			return nil, err
		}
		where = append(where, `p.org_group_id IN (SELECT value FROM json_each(?))`)
		args = append(args, ids)
	}
	if q.ActiveOnly || q.VisibleOnly {
		where = append(where, `a.is_active = 1`)
	}
	if q.VisibleOnly {
		where = append(where, `p.hide_profile = 0`)
	}

	query := personSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	if q.RecentFirst {
		query += ` ORDER BY p.updated_at DESC, p.id`
	} else {
		query += ` ORDER BY a.last_name COLLATE NOCASE, a.first_name COLLATE NOCASE, p.id`
	}
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	people := []*domain.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}
