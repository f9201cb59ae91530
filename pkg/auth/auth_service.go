package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/auth"
	"github.com/budgetflow/budgetflow/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// The original identity configuration only enforces a minimum length.
const minPasswordLength = 6

type Registration struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	Department      string
	Position        string
	HourlyRateCents int64
}

type Service interface {
	Register(ctx context.Context, reg Registration) (user.User, error)
	Login(ctx context.Context, email string, password string) (string, user.User, error)
}

type ServiceImpl struct {
	users  user.Repo
	issuer *auth.TokenIssuer
}

func NewService(users user.Repo, issuer *auth.TokenIssuer) *ServiceImpl {
	return &ServiceImpl{users: users, issuer: issuer}
}

// Register creates a new user with the employee role.
func (s *ServiceImpl) Register(ctx context.Context, reg Registration) (user.User, error) {
	if reg.Email == "" {
		return user.User{}, apperror.Validation("email is required")
	}
	if len(reg.Password) < minPasswordLength {
		return user.User{}, apperror.Validation("password must be at least %d characters", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := user.User{
		Uid:             uuid.NewString(),
		Email:           reg.Email,
		PasswordHash:    string(hashed),
		FirstName:       reg.FirstName,
		LastName:        reg.LastName,
		Department:      reg.Department,
		Position:        reg.Position,
		Role:            user.RoleEmployee,
		HourlyRateCents: reg.HourlyRateCents,
		IsActive:        true,
	}

	id, err := s.users.CreateUser(ctx, newUser)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, apperror.Validation("email %s is already registered", reg.Email)
		}
		return user.User{}, err
	}
	newUser.Id = id
	log.Infof("registered user %s", newUser.Uid)
	return newUser, nil
}

// Login verifies credentials and returns a signed token plus the user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *ServiceImpl) Login(ctx context.Context, email string, password string) (string, user.User, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", user.User{}, apperror.Auth("invalid email or password")
		}
		return "", user.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", user.User{}, apperror.Auth("invalid email or password")
	}

	token, err := s.issuer.Issue(u)
	if err != nil {
		return "", user.User{}, err
	}
	return token, u, nil
}
