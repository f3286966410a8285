package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ticketkati/ticketkati/internal/model"
)

// ErrEmailExists is returned when registration hits the unique index on
// accounts.email.  The uniqueness rule spans all roles because the table
// holds users, vendors and admins together.
var ErrEmailExists = errors.New("email already exists")

// AccountRepo provides CRUD operations on the accounts table.
type AccountRepo struct{ DB *sql.DB }

// NewAccountRepo returns an AccountRepo bound to the given database.
func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountCols = `id, name, email, photo, role, password_hash, fraud, created_at`

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	var photo sql.NullString
	var hash sql.NullString
	err := row.Scan(&a.ID, &a.Name, &a.Email, &photo, &a.Role, &hash, &a.Fraud, &a.CreatedAt)
	if err != nil {
		return model.Account{}, err
	}
	a.Photo = photo.String
	if hash.Valid {
		h := hash.String
		a.PasswordHash = &h
	}
	return a, nil
}

// Create inserts an account and returns its ID.  Email is normalized to
// lower case before insertion.  passwordHash may be nil for accounts that
// registered through a social sign-in.  A duplicate email in any role
// yields ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, name, email, photo, role string, passwordHash *string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (name, email, photo, role, password_hash) VALUES (?,?,?,?,?)",
		name, email, photo, role, passwordHash)
	if err != nil {
		// MySQL error 1062 = duplicate entry for the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.  sql.ErrNoRows is
// returned when no account carries the email in any role.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE email=? LIMIT 1", email)
	return scanAccount(row)
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE id=? LIMIT 1", id)
	return scanAccount(row)
}

// UpdateRole moves an account into a different role by rewriting the role
// column in place.  The row never leaves the table, so the total account
// count is invariant under role changes.  sql.ErrNoRows is returned when
// the account does not exist.
func (r *AccountRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE accounts SET role=? WHERE id=?", role, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing row from a no-op role rewrite.
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE id=?", id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// MarkVendorFraud flags a vendor account as fraudulent.  The flag only
// applies to vendors; flagging any other role returns ErrConflict.  The
// caller is expected to follow up by delisting the vendor's tickets.
func (r *AccountRepo) MarkVendorFraud(ctx context.Context, id uint64) error {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Role != model.RoleVendor {
		return ErrConflict
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE accounts SET fraud=1 WHERE id=?", id)
	return err
}

// ListByRole returns all accounts carrying the given role ordered by
// creation time descending.  An empty role returns every account.
func (r *AccountRepo) ListByRole(ctx context.Context, role string) ([]model.Account, error) {
	q := "SELECT " + accountCols + " FROM accounts"
	args := []interface{}{}
	if role != "" {
		q += " WHERE role=?"
		args = append(args, role)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	accounts := make([]model.Account, 0)
	for rows.Next() {
		var a model.Account
		var photo, hash sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &photo, &a.Role, &hash, &a.Fraud, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Photo = photo.String
		if hash.Valid {
			h := hash.String
			a.PasswordHash = &h
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
