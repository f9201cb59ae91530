package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, userId int, user User) (bool, error)
	DeleteUser(ctx context.Context, id int) (bool, error)
	CountOwnedBudgets(ctx context.Context, id int) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const userColumns = `id, uid, email, password_hash, first_name, last_name, department, position, role,
				hourly_rate_cents, is_active, created_at`

func (u *RepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	role := user.Role
	if role == "" {
		role = RoleEmployee
	}
	query := `INSERT INTO users (uid, email, password_hash, first_name, last_name, department, position, role,
				hourly_rate_cents) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := u.db.ExecContext(ctx, query,
		user.Uid,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Department,
		user.Position,
		role,
		user.HourlyRateCents,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return 0, ErrEmailTaken
		}
		log.Errorf("failed to create user: %v", err)
		return 0, apperror.Infrastructure("failed to create user", err)
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := apperror.Infrastructure("could not retrieve last insert id", err)
		log.Error(err)
		return 0, err
	}
	return int(lastInsertID), nil
}

func (u *RepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return u.scanUser(u.db.QueryRowContext(ctx, query, id))
}

func (u *RepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = ?`
	return u.scanUser(u.db.QueryRowContext(ctx, query, uid))
}

func (u *RepoImpl) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return u.scanUser(u.db.QueryRowContext(ctx, query, email))
}

func (u *RepoImpl) scanUser(row *sql.Row) (User, error) {
	var user User
	var createdAt string
	err := row.Scan(
		&user.Id,
		&user.Uid,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Department,
		&user.Position,
		&user.Role,
		&user.HourlyRateCents,
		&user.IsActive,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, apperror.Infrastructure("failed to get user", err)
	}
	user.CreatedAt, err = utils.ParseTimestamp(createdAt)
	if err != nil {
		log.Errorf("could not parse user created_at: %v", err)
		return User{}, apperror.Infrastructure("could not parse user created_at", err)
	}
	return user, nil
}

func (u *RepoImpl) UpdateUser(ctx context.Context, userId int, user User) (bool, error) {
	query := `UPDATE users SET first_name = ?, last_name = ?, department = ?, position = ?, hourly_rate_cents = ?
				WHERE id = ?`
	result, err := u.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Department,
		user.Position,
		user.HourlyRateCents,
		userId,
	)
	if err != nil {
		err := apperror.Infrastructure("could not execute query", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := apperror.Infrastructure("could not get rows affected", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

// DeleteUser removes the user row. Timesheet entries and audit logs cascade,
// approval reviewer references are set to NULL by the schema. Budgets the
// user created are protected by the RESTRICT clause; callers must check
// CountOwnedBudgets first to return a domain error instead of a driver one.
func (u *RepoImpl) DeleteUser(ctx context.Context, id int) (bool, error) {
	result, err := u.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		err := apperror.Infrastructure("could not execute query", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := apperror.Infrastructure("could not get rows affected", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (u *RepoImpl) CountOwnedBudgets(ctx context.Context, id int) (int, error) {
	row := u.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM budgets WHERE created_by = ?", id)
	var count int
	if err := row.Scan(&count); err != nil {
		log.Errorf("could not count owned budgets: %v", err)
		return 0, apperror.Infrastructure("could not count owned budgets", err)
	}
	return count, nil
}
