package timesheet

import (
	"context"
	"sort"
	"time"
)

type StubTimesheetRepo struct {
	entries map[int]Entry
	nextId  int
}

func NewStubTimesheetRepo() *StubTimesheetRepo {
	return &StubTimesheetRepo{entries: make(map[int]Entry), nextId: 1}
}

func (r *StubTimesheetRepo) Cleanup() {
	r.entries = make(map[int]Entry)
	r.nextId = 1
}

func (r *StubTimesheetRepo) Store(_ context.Context, entry Entry) (int, error) {
	entry.ID = r.nextId
	r.nextId++
	entry.Status = StatusDraft
	entry.CreatedAt = time.Now()
	r.entries[entry.ID] = entry
	return entry.ID, nil
}

func (r *StubTimesheetRepo) Get(_ context.Context, employeeId int, id int) (Entry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.EmployeeID != employeeId {
		return Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (r *StubTimesheetRepo) GetAll(_ context.Context, employeeId int) ([]Entry, error) {
	var entries []Entry
	for _, entry := range r.entries {
		if entry.EmployeeID == employeeId {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].EntryDate.After(entries[j].EntryDate)
	})
	return entries, nil
}

func (r *StubTimesheetRepo) Update(_ context.Context, employeeId int, entry Entry) (bool, error) {
	existing, ok := r.entries[entry.ID]
	if !ok || existing.EmployeeID != employeeId || existing.Status != StatusDraft {
		return false, nil
	}
	entry.EmployeeID = existing.EmployeeID
	entry.Status = existing.Status
	entry.CreatedAt = existing.CreatedAt
	r.entries[entry.ID] = entry
	return true, nil
}

func (r *StubTimesheetRepo) Delete(_ context.Context, employeeId int, id int) (bool, error) {
	existing, ok := r.entries[id]
	if !ok || existing.EmployeeID != employeeId || existing.Status != StatusDraft {
		return false, nil
	}
	delete(r.entries, id)
	return true, nil
}

func (r *StubTimesheetRepo) Submit(_ context.Context, employeeId int, id int) (bool, error) {
	existing, ok := r.entries[id]
	if !ok || existing.EmployeeID != employeeId || existing.Status != StatusDraft {
		return false, nil
	}
	existing.Status = StatusSubmitted
	r.entries[id] = existing
	return true, nil
}

func (r *StubTimesheetRepo) CountDistinctProjects(_ context.Context, employeeId int) (int, error) {
	projects := make(map[string]struct{})
	for _, entry := range r.entries {
		if entry.EmployeeID == employeeId {
			projects[entry.ProjectName] = struct{}{}
		}
	}
	return len(projects), nil
}
