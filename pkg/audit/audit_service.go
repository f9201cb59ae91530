package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/budgetflow/budgetflow/internal/utils"
	"github.com/budgetflow/budgetflow/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Recorder is what mutating services depend on. Recording is best effort:
// a failed audit write is logged and never fails the calling request.
type Recorder interface {
	Record(ctx context.Context, action Action, entityType string, entityId int, oldValue any, newValue any)
}

type Service interface {
	Recorder
	ListOwn(ctx context.Context, limit int) ([]Entry, error)
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Record(ctx context.Context, action Action, entityType string, entityId int, oldValue any, newValue any) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		log.Warnf("skipping audit entry for %s %s %d: no user in context", action, entityType, entityId)
		return
	}

	entry := Entry{
		UserId:     userId,
		Action:     action,
		EntityType: entityType,
		EntityId:   entityId,
		OldValues:  marshalSnapshot(oldValue),
		NewValues:  marshalSnapshot(newValue),
		Timestamp:  s.clock.Now(),
	}
	if _, err := s.repo.Store(ctx, entry); err != nil {
		log.Errorf("failed to store audit entry for %s %s %d: %v", action, entityType, entityId, err)
	}
}

func (s *ServiceImpl) ListOwn(ctx context.Context, limit int) ([]Entry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListForUser(ctx, userId, limit)
}

func marshalSnapshot(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Warnf("failed to marshal audit snapshot: %v", err)
		return ""
	}
	return string(data)
}

// NopRecorder discards entries. Used by service tests that do not assert
// on auditing.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Action, string, int, any, any) {}
