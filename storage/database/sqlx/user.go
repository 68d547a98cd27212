package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core/user"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*UserRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (repo *UserRepository) GetUser(ctx context.Context, username string, role user.Role) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		`SELECT * FROM users WHERE username = $1 AND role = $2`, username, role)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user by username and role")
	}
	return usr, nil
}

func (repo *UserRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user by id")
	}
	return usr, nil
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO users (id, name, username, email, mobile, role, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.Mobile, usr.Role,
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return user.User{}, user.ErrDuplicateAccount
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *UserRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY created_at`)
	return users, errors.Wrap(err, "selecting all users")
}

func (repo *UserRepository) SetLastLogin(ctx context.Context, usr user.User) (user.User, error) {
	now := time.Now().UTC()
	_, err := repo.db.ExecContext(ctx,
		`UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`, usr.ID, now)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating lastLogin")
	}
	usr.LastLogin = now
	usr.UpdatedAt = now
	return usr, nil
}
