package sqlite

import (
	"context"
	"fmt"

	"github.com/listenupapp/staff-directory/internal/domain"
)

// praiseSelect joins the recipient profile with its account and the
// nominator account.
const praiseSelect = `
	SELECT pr.id, pr.recipient_id, pr.nominator_id, pr.value, pr.reason, pr.created_at,
	       p.stub, ra.first_name, ra.last_name,
	       na.email, na.first_name, na.last_name, na.is_active
	FROM praise pr
	JOIN people p ON p.id = pr.recipient_id
	JOIN accounts ra ON ra.id = p.account_id
	JOIN accounts na ON na.id = pr.nominator_id`

func scanPraise(row scanner) (*domain.Praise, error) {
	var (
		pr        domain.Praise
		recipient domain.Person
		rAccount  domain.Account
		nominator domain.Account
		createdAt string
	)
	err := row.Scan(
		&pr.ID, &pr.RecipientID, &pr.NominatorID, &pr.Value, &pr.Reason, &createdAt,
		&recipient.Stub, &rAccount.FirstName, &rAccount.LastName,
		&nominator.Email, &nominator.FirstName, &nominator.LastName, &nominator.IsActive,
	)
	if err != nil {
		return nil, err
	}
	if pr.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	recipient.ID = pr.RecipientID
	recipient.Account = &rAccount
	nominator.ID = pr.NominatorID
	pr.Recipient = &recipient
	pr.Nominator = &nominator
	return &pr, nil
}

// CreatePraise appends a thanks note.
func (s *Store) CreatePraise(ctx context.Context, p *domain.Praise) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO praise (id, recipient_id, nominator_id, value, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.RecipientID, p.NominatorID, string(p.Value), p.Reason, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert praise: %w", err)
	}
	return nil
}

// CountPraise returns the number of thanks notes.
func (s *Store) CountPraise(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM praise`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count praise: %w", err)
	}
	return n, nil
}

// ListPraise returns thanks notes newest first.
func (s *Store) ListPraise(ctx context.Context, offset, limit int) ([]*domain.Praise, error) {
	return s.listPraise(ctx, praiseSelect+`
		ORDER BY pr.created_at DESC, pr.id DESC
		LIMIT ? OFFSET ?`, limit, offset)
}

// ListPraiseForRecipient returns the newest thanks a profile received.
func (s *Store) ListPraiseForRecipient(ctx context.Context, personID string, limit int) ([]*domain.Praise, error) {
	return s.listPraise(ctx, praiseSelect+`
		WHERE pr.recipient_id = ?
		ORDER BY pr.created_at DESC, pr.id DESC
		LIMIT ?`, personID, limit)
}

func (s *Store) listPraise(ctx context.Context, query string, args ...any) ([]*domain.Praise, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list praise: %w", err)
	}
	defer rows.Close()

	out := []*domain.Praise{}
	for rows.Next() {
		pr, err := scanPraise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}
