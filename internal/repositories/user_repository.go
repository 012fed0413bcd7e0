package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Matesfu/Mela-rent/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, email, password, role, date_joined, last_login`

func scanUser(row rowScanner) (models.User, error) {
	var (
		user      models.User
		role      string
		lastLogin sql.NullTime
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &role, &user.DateJoined, &lastLogin); err != nil {
		return models.User{}, err
	}
	user.Role = models.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		INSERT INTO users (username, email, password, role, date_joined)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.DB.ExecContext(ctx, query,
		user.Username, user.Email, user.Password, string(user.Role), user.DateJoined.UTC(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "email") {
				return models.User{}, models.ErrDuplicateEmail
			}
			return models.User{}, models.ErrDuplicateUsername
		}
		return models.User{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNoRecord
	}
	return user, err
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNoRecord
	}
	return user, err
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), id)
	return err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int, role models.Role) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the user is missing or already has the role.
		var exists int
		err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNoRecord
		}
		return err
	}
	return nil
}
