package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/01moynul/mayaj-store/internal/models"
)

// UserStore reads and creates accounts.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, is_staff, is_active, created_at, updated_at`

func (s *UserStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id); err != nil {
		return nil, notFound(err, "user by id")
	}
	return &u, nil
}

func (s *UserStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE email = ?", email); err != nil {
		return nil, notFound(err, "user by email")
	}
	return &u, nil
}

// CreateUser inserts an account. PasswordHash must already be a bcrypt hash.
func (s *UserStore) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	u.IsActive = true
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, is_staff, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, TRUE, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.IsStaff, now, now)
	if isDuplicate(err) {
		return errors.Wrapf(ErrConflict, "user %q", u.Email)
	}
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	u.ID, err = res.LastInsertId()
	return errors.Wrap(err, "user id")
}
