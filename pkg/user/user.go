package user

import (
	"errors"
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Role string

const (
	RoleEmployee  Role = "employee"
	RoleManager   Role = "manager"
	RoleFinance   Role = "finance"
	RoleExecutive Role = "executive"
)

// ParseRole validates a role coming from the transport boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleFinance, RoleExecutive:
		return Role(s), nil
	}
	return "", apperror.Validation("unknown role: %q", s)
}

type User struct {
	Id              int
	Uid             string
	Email           string
	PasswordHash    string
	FirstName       string
	LastName        string
	Department      string
	Position        string
	Role            Role
	HourlyRateCents int64
	IsActive        bool
	CreatedAt       time.Time
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
