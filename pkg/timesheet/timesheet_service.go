package timesheet

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/pkg/audit"
	"github.com/budgetflow/budgetflow/pkg/user"
)

type Service interface {
	CreateEntry(ctx context.Context, entry Entry) (Entry, error)
	GetEntry(ctx context.Context, id int) (Entry, error)
	GetEntries(ctx context.Context) ([]Entry, error)
	UpdateEntry(ctx context.Context, entry Entry) (Entry, error)
	DeleteEntry(ctx context.Context, id int) error
	SubmitEntry(ctx context.Context, id int) (Entry, error)
}

type ServiceImpl struct {
	repo    Repo
	auditor audit.Recorder
}

func NewTimesheetService(repo Repo, auditor audit.Recorder) *ServiceImpl {
	return &ServiceImpl{repo: repo, auditor: auditor}
}

func (s *ServiceImpl) CreateEntry(ctx context.Context, entry Entry) (Entry, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}
	entry.EmployeeID = currentUser.Id
	if entry.HourlyRateCents == 0 {
		entry.HourlyRateCents = currentUser.HourlyRateCents
	}

	entryId, err := s.repo.Store(ctx, entry)
	if err != nil {
		return Entry{}, err
	}
	created, err := s.repo.Get(ctx, currentUser.Id, entryId)
	if err != nil {
		return Entry{}, err
	}
	s.auditor.Record(ctx, audit.ActionCreate, audit.EntityTimesheet, entryId, nil, created)
	return created, nil
}

func (s *ServiceImpl) GetEntry(ctx context.Context, id int) (Entry, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	entry, err := s.repo.Get(ctx, currentUserId, id)
	if errors.Is(err, ErrEntryNotFound) {
		return Entry{}, apperror.NotFound("timesheet entry %d not found", id)
	} else if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *ServiceImpl) GetEntries(ctx context.Context) ([]Entry, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, currentUserId)
}

func (s *ServiceImpl) UpdateEntry(ctx context.Context, entry Entry) (Entry, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}
	existing, err := s.GetEntry(ctx, entry.ID)
	if err != nil {
		return Entry{}, err
	}

	updated, err := s.repo.Update(ctx, currentUserId, entry)
	if err != nil {
		return Entry{}, err
	}
	if !updated {
		return Entry{}, apperror.InvalidState("timesheet entry %d is %s, only drafts can be modified", entry.ID, existing.Status)
	}

	result, err := s.repo.Get(ctx, currentUserId, entry.ID)
	if err != nil {
		return Entry{}, err
	}
	s.auditor.Record(ctx, audit.ActionUpdate, audit.EntityTimesheet, entry.ID, existing, result)
	return result, nil
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, id int) error {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	existing, err := s.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, currentUserId, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.InvalidState("timesheet entry %d is %s, only drafts can be deleted", id, existing.Status)
	}
	s.auditor.Record(ctx, audit.ActionDelete, audit.EntityTimesheet, id, existing, nil)
	return nil
}

func (s *ServiceImpl) SubmitEntry(ctx context.Context, id int) (Entry, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	existing, err := s.GetEntry(ctx, id)
	if err != nil {
		return Entry{}, err
	}

	submitted, err := s.repo.Submit(ctx, currentUserId, id)
	if err != nil {
		return Entry{}, err
	}
	if !submitted {
		return Entry{}, apperror.InvalidState("timesheet entry %d is %s, only drafts can be submitted", id, existing.Status)
	}

	result, err := s.repo.Get(ctx, currentUserId, id)
	if err != nil {
		return Entry{}, err
	}
	s.auditor.Record(ctx, audit.ActionSubmit, audit.EntityTimesheet, id, existing, result)
	return result, nil
}
