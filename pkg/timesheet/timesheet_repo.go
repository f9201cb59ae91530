package timesheet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/utils"
	log "github.com/sirupsen/logrus"
)

var ErrEntryNotFound = errors.New("timesheet entry not found")

type Repo interface {
	Store(ctx context.Context, entry Entry) (int, error)
	Get(ctx context.Context, employeeId int, id int) (Entry, error)
	GetAll(ctx context.Context, employeeId int) ([]Entry, error)
	// Update replaces the mutable fields. The guard keeps it a no-op unless
	// the entry is still a draft owned by employeeId.
	Update(ctx context.Context, employeeId int, entry Entry) (bool, error)
	Delete(ctx context.Context, employeeId int, id int) (bool, error)
	Submit(ctx context.Context, employeeId int, id int) (bool, error)
	CountDistinctProjects(ctx context.Context, employeeId int) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewTimesheetRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, entry Entry) (int, error) {
	query := `INSERT INTO timesheet_entries (employee_id, budget_id, entry_date, hours_hundredths,
				project_name, task_description, hourly_rate_cents, status)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		entry.EmployeeID,
		entry.BudgetID,
		utils.FormatDate(entry.EntryDate),
		entry.HoursHundredths,
		entry.ProjectName,
		entry.TaskDescription,
		entry.HourlyRateCents,
		StatusDraft,
	)
	if err != nil {
		err := apperror.Infrastructure("could not execute query", err)
		log.Error(err)
		return 0, err
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := apperror.Infrastructure("could not retrieve last insert id", err)
		log.Error(err)
		return 0, err
	}
	return int(lastInsertID), nil
}

const entryColumns = `id, employee_id, budget_id, entry_date, hours_hundredths, project_name,
				task_description, hourly_rate_cents, status, created_at`

func (r *RepoImpl) Get(ctx context.Context, employeeId int, id int) (Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM timesheet_entries WHERE id = ? AND employee_id = ?`
	row := r.db.QueryRowContext(ctx, query, id, employeeId)
	entry, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	} else if err != nil {
		log.Errorf("could not get timesheet entry %d: %v", id, err)
		return Entry{}, apperror.Infrastructure("could not get timesheet entry", err)
	}
	return entry, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, employeeId int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM timesheet_entries WHERE employee_id = ?
				ORDER BY entry_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, employeeId)
	if err != nil {
		err := apperror.Infrastructure("could not query timesheet entries", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			err := apperror.Infrastructure("could not scan timesheet entry", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		err := apperror.Infrastructure("error iterating over rows", err)
		log.Error(err)
		return nil, err
	}
	return entries, nil
}

func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var entry Entry
	var budgetId sql.NullInt64
	var entryDate, createdAt string
	err := scan(
		&entry.ID,
		&entry.EmployeeID,
		&budgetId,
		&entryDate,
		&entry.HoursHundredths,
		&entry.ProjectName,
		&entry.TaskDescription,
		&entry.HourlyRateCents,
		&entry.Status,
		&createdAt,
	)
	if err != nil {
		return Entry{}, err
	}
	if budgetId.Valid {
		id := int(budgetId.Int64)
		entry.BudgetID = &id
	}
	if entry.EntryDate, err = utils.ParseDate(entryDate); err != nil {
		return Entry{}, fmt.Errorf("could not parse entry date: %w", err)
	}
	if entry.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
		return Entry{}, fmt.Errorf("could not parse created_at: %w", err)
	}
	return entry, nil
}

func (r *RepoImpl) Update(ctx context.Context, employeeId int, entry Entry) (bool, error) {
	query := `UPDATE timesheet_entries SET
				  budget_id = ?,
				  entry_date = ?,
				  hours_hundredths = ?,
				  project_name = ?,
				  task_description = ?,
				  hourly_rate_cents = ?
			  WHERE id = ? AND employee_id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, query,
		entry.BudgetID,
		utils.FormatDate(entry.EntryDate),
		entry.HoursHundredths,
		entry.ProjectName,
		entry.TaskDescription,
		entry.HourlyRateCents,
		entry.ID,
		employeeId,
		StatusDraft,
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

func (r *RepoImpl) Delete(ctx context.Context, employeeId int, id int) (bool, error) {
	query := `DELETE FROM timesheet_entries WHERE id = ? AND employee_id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, query, id, employeeId, StatusDraft)
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

func (r *RepoImpl) Submit(ctx context.Context, employeeId int, id int) (bool, error) {
	query := `UPDATE timesheet_entries SET status = ? WHERE id = ? AND employee_id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, query, StatusSubmitted, id, employeeId, StatusDraft)
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

func (r *RepoImpl) CountDistinctProjects(ctx context.Context, employeeId int) (int, error) {
	var count int
	query := `SELECT COUNT(DISTINCT project_name) FROM timesheet_entries WHERE employee_id = ?`
	if err := r.db.QueryRowContext(ctx, query, employeeId).Scan(&count); err != nil {
		log.Errorf("could not count projects: %v", err)
		return 0, apperror.Infrastructure("could not count projects", err)
	}
	return count, nil
}
