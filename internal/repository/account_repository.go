package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/opentrails/data-relay/internal/model"
)

// AccountRepo persists rows of the 'Account' table.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// NewAccountID generates a fresh 20-character account identifier, a UUID
// with the dashes stripped and truncated, matching the ids already in the
// wild.
func NewAccountID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

// Exists reports whether an account with the given username is present.
func (r *AccountRepo) Exists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Account WHERE username=?", username).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new account. The caller supplies the generated
// AccountID and the already-hashed password.
func (r *AccountRepo) Create(ctx context.Context, a model.Account) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO Account (accountID, username, password, birthyear, weight, sex, height) VALUES (?,?,?,?,?,?,?)",
		a.AccountID, a.Username, a.PasswordHash, a.BirthYear, a.Weight, a.Sex, a.Height)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrUsernameExists
		}
		return err
	}
	return nil
}

// GetByUsername fetches an account by its unique username. sql.ErrNoRows
// passes through when the username is unknown.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT accountID,username,password,birthyear,weight,sex,height,createdAt FROM Account WHERE username=? LIMIT 1",
		username).Scan(&a.AccountID, &a.Username, &a.PasswordHash, &a.BirthYear, &a.Weight, &a.Sex, &a.Height, &a.CreatedAt)
	return a, err
}

// GetByID fetches an account by its identifier.
func (r *AccountRepo) GetByID(ctx context.Context, accountID string) (model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT accountID,username,password,birthyear,weight,sex,height,createdAt FROM Account WHERE accountID=? LIMIT 1",
		accountID).Scan(&a.AccountID, &a.Username, &a.PasswordHash, &a.BirthYear, &a.Weight, &a.Sex, &a.Height, &a.CreatedAt)
	return a, err
}

// Update replaces every editable field of the account identified by
// a.AccountID. Edits are wholesale: the caller sends the full new state.
func (r *AccountRepo) Update(ctx context.Context, a model.Account) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE Account SET username=?, password=?, birthyear=?, weight=?, sex=?, height=? WHERE accountID=?",
		a.Username, a.PasswordHash, a.BirthYear, a.Weight, a.Sex, a.Height, a.AccountID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrUsernameExists
	}
	return err
}

// ListDemographics returns the fields the demographic histograms need
// (sex, birth year, creation time) for every account.
func (r *AccountRepo) ListDemographics(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT accountID,sex,birthyear,createdAt FROM Account")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.AccountID, &a.Sex, &a.BirthYear, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
