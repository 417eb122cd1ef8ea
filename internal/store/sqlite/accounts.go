package sqlite

import (
	"context"
	"fmt"

	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/store"
)

const accountColumns = `id, email, first_name, last_name, is_active`

func scanAccount(row scanner) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.IsActive); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAccount inserts an account. Emails are unique ignoring case.
func (s *Store) CreateAccount(ctx context.Context, a *domain.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, first_name, last_name, is_active)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.FirstName, a.LastName, a.IsActive,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("account email already exists")
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// GetAccountByEmail matches the email case-insensitively.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ? COLLATE NOCASE`, email)
	a, err := scanAccount(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// DeleteAccount removes an account. Its profile and praise go with it;
// tags it created stay but lose their creator.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
