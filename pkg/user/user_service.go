package user

import (
	"context"
	"fmt"

	"github.com/budgetflow/budgetflow/internal/apperror"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateCurrentUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, uid string) error
}

type ServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (u *ServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.GetUser(ctx, userId)
}

func (u *ServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *ServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

// UpdateCurrentUser overwrites the current user's profile fields. Identity
// fields (uid, email, role) are not touched here.
func (u *ServiceImpl) UpdateCurrentUser(ctx context.Context, user User) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := u.repo.UpdateUser(ctx, userId, user)
	if err != nil {
		return User{}, err
	}
	if !updated {
		return User{}, apperror.NotFound("user %d not found", userId)
	}
	return u.repo.GetUser(ctx, userId)
}

// DeleteUser removes a user. Users who still own budgets cannot be deleted;
// their budgets must be reassigned or removed first.
func (u *ServiceImpl) DeleteUser(ctx context.Context, uid string) error {
	target, err := u.repo.GetUserByUid(ctx, uid)
	if err != nil {
		if err == ErrUserNotFound {
			return apperror.NotFound("user %s not found", uid)
		}
		return err
	}

	owned, err := u.repo.CountOwnedBudgets(ctx, target.Id)
	if err != nil {
		return err
	}
	if owned > 0 {
		log.Warnf("refusing to delete user %s: owns %d budgets", uid, owned)
		return apperror.InvalidState("user %s still owns %d budgets", uid, owned)
	}

	deleted, err := u.repo.DeleteUser(ctx, target.Id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("user %s not found", uid)
	}
	return nil
}
