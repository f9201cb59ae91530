package audit

import (
	"context"
	"sort"
)

type StubAuditRepo struct {
	nextId int
	data   map[int]Entry
}

func NewStubAuditRepo() *StubAuditRepo {
	return &StubAuditRepo{data: map[int]Entry{}}
}

func (s *StubAuditRepo) Store(ctx context.Context, entry Entry) (int, error) {
	s.nextId++
	entry.Id = s.nextId
	s.data[entry.Id] = entry
	return entry.Id, nil
}

func (s *StubAuditRepo) ListForUser(ctx context.Context, userId int, limit int) ([]Entry, error) {
	var entries []Entry
	for _, entry := range s.data {
		if entry.UserId == userId {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Id > entries[j].Id
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *StubAuditRepo) Cleanup() {
	s.data = map[int]Entry{}
	s.nextId = 0
}
