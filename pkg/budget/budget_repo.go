package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/utils"
	log "github.com/sirupsen/logrus"
)

var ErrBudgetNotFound = errors.New("budget not found")

type Repo interface {
	Store(ctx context.Context, userId int, budget Budget) (int, error)
	Get(ctx context.Context, id int) (Budget, error)
	GetAll(ctx context.Context, userId int, offset int, limit int) ([]Budget, error)
	// Update overwrites the mutable fields. The guard keeps it a no-op
	// unless the budget is still a draft owned by userId.
	Update(ctx context.Context, userId int, budget Budget, now time.Time) (bool, error)
	Delete(ctx context.Context, userId int, budgetId int) (bool, error)
	// Submit flips draft -> submitted and inserts the initial Manager-level
	// pending approval in one transaction. Returns false when the budget is
	// not a draft owned by userId, in which case nothing is written.
	Submit(ctx context.Context, userId int, budgetId int, now time.Time) (bool, error)
	SumAmounts(ctx context.Context, userId int, status Status) (int64, int64, error)

	StoreItem(ctx context.Context, item Item) (int, error)
	UpdateItem(ctx context.Context, item Item) (bool, error)
	DeleteItem(ctx context.Context, budgetId int, itemId int) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewBudgetRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, budget Budget) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := apperror.Infrastructure("could not begin transaction", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback()

	query := `INSERT INTO budgets (title, description, department, total_cents, spent_cents, status, period,
				start_date, end_date, created_by) VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, query,
		budget.Title,
		budget.Description,
		budget.Department,
		budget.TotalCents,
		StatusDraft,
		budget.Period,
		utils.FormatDate(budget.StartDate),
		utils.FormatDate(budget.EndDate),
		userId,
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
	budgetId := int(lastInsertID)

	for _, item := range budget.Items {
		item.BudgetID = budgetId
		if err := insertItem(ctx, tx, item); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		err := apperror.Infrastructure("could not commit transaction", err)
		log.Error(err)
		return 0, err
	}
	return budgetId, nil
}

func insertItem(ctx context.Context, tx *sql.Tx, item Item) error {
	query := `INSERT INTO budget_items (budget_id, category, description, amount_cents, spent_cents, cost_center)
				VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		item.BudgetID,
		item.Category,
		item.Description,
		item.AmountCents,
		item.SpentCents,
		item.CostCenter,
	); err != nil {
		err := apperror.Infrastructure("could not insert budget item", err)
		log.Error(err)
		return err
	}
	return nil
}

const budgetColumns = `b.id, b.title, b.description, b.department, b.total_cents, b.spent_cents, b.status, b.period,
				b.start_date, b.end_date, b.created_by, u.first_name || ' ' || u.last_name, b.created_at, b.updated_at`

func (r *RepoImpl) Get(ctx context.Context, id int) (Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets b JOIN users u ON u.id = b.created_by WHERE b.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	budget, err := scanBudget(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	} else if err != nil {
		log.Errorf("could not get budget %d: %v", id, err)
		return Budget{}, apperror.Infrastructure("could not get budget", err)
	}

	items, err := r.itemsForBudget(ctx, id)
	if err != nil {
		return Budget{}, err
	}
	budget.Items = items
	return budget, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int, offset int, limit int) ([]Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets b JOIN users u ON u.id = b.created_by
				WHERE b.created_by = ? ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, userId, limit, offset)
	if err != nil {
		err := apperror.Infrastructure("could not query budgets", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		budget, err := scanBudget(rows.Scan)
		if err != nil {
			err := apperror.Infrastructure("could not scan budget", err)
			log.Error(err)
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		err := apperror.Infrastructure("error iterating over rows", err)
		log.Error(err)
		return nil, err
	}

	for i := range budgets {
		items, err := r.itemsForBudget(ctx, budgets[i].ID)
		if err != nil {
			return nil, err
		}
		budgets[i].Items = items
	}
	return budgets, nil
}

func scanBudget(scan func(dest ...any) error) (Budget, error) {
	var budget Budget
	var startDate, endDate, createdAt string
	var updatedAt sql.NullString
	err := scan(
		&budget.ID,
		&budget.Title,
		&budget.Description,
		&budget.Department,
		&budget.TotalCents,
		&budget.SpentCents,
		&budget.Status,
		&budget.Period,
		&startDate,
		&endDate,
		&budget.CreatedBy,
		&budget.CreatedByName,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return Budget{}, err
	}
	if budget.StartDate, err = utils.ParseDate(startDate); err != nil {
		return Budget{}, fmt.Errorf("could not parse start date: %w", err)
	}
	if budget.EndDate, err = utils.ParseDate(endDate); err != nil {
		return Budget{}, fmt.Errorf("could not parse end date: %w", err)
	}
	if budget.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
		return Budget{}, fmt.Errorf("could not parse created_at: %w", err)
	}
	if updatedAt.Valid {
		t, err := utils.ParseTimestamp(updatedAt.String)
		if err != nil {
			return Budget{}, fmt.Errorf("could not parse updated_at: %w", err)
		}
		budget.UpdatedAt = &t
	}
	return budget, nil
}

func (r *RepoImpl) itemsForBudget(ctx context.Context, budgetId int) ([]Item, error) {
	query := `SELECT id, budget_id, category, description, amount_cents, spent_cents, cost_center, created_at
				FROM budget_items WHERE budget_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, budgetId)
	if err != nil {
		err := apperror.Infrastructure("could not query budget items", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var createdAt string
		if err := rows.Scan(
			&item.ID,
			&item.BudgetID,
			&item.Category,
			&item.Description,
			&item.AmountCents,
			&item.SpentCents,
			&item.CostCenter,
			&createdAt,
		); err != nil {
			err := apperror.Infrastructure("could not scan budget item", err)
			log.Error(err)
			return nil, err
		}
		if item.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
			log.Errorf("could not parse item created_at: %v", err)
			return nil, apperror.Infrastructure("could not parse item created_at", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		err := apperror.Infrastructure("error iterating over rows", err)
		log.Error(err)
		return nil, err
	}
	return items, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, budget Budget, now time.Time) (bool, error) {
	query := `UPDATE budgets SET
				  title = ?,
				  description = ?,
				  department = ?,
				  total_cents = ?,
				  period = ?,
				  start_date = ?,
				  end_date = ?,
				  updated_at = ?
			  WHERE id = ? AND created_by = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, query,
		budget.Title,
		budget.Description,
		budget.Department,
		budget.TotalCents,
		budget.Period,
		utils.FormatDate(budget.StartDate),
		utils.FormatDate(budget.EndDate),
		now.Format(time.RFC3339),
		budget.ID,
		userId,
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

func (r *RepoImpl) Delete(ctx context.Context, userId int, budgetId int) (bool, error) {
	// Items and approvals are removed by the schema's cascade clauses.
	query := `DELETE FROM budgets WHERE id = ? AND created_by = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, query, budgetId, userId, StatusDraft)
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

func (r *RepoImpl) Submit(ctx context.Context, userId int, budgetId int, now time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := apperror.Infrastructure("could not begin transaction", err)
		log.Error(err)
		return false, err
	}
	defer tx.Rollback()

	// The status guard serializes racing submits: only one transaction can
	// flip the row out of draft, so only one approval is ever inserted.
	result, err := tx.ExecContext(ctx,
		`UPDATE budgets SET status = ?, updated_at = ? WHERE id = ? AND created_by = ? AND status = ?`,
		StatusSubmitted,
		now.Format(time.RFC3339),
		budgetId,
		userId,
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
	if rowsAffected != 1 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO approvals (budget_id, status, level, created_at) VALUES (?, 'pending', 'manager', ?)`,
		budgetId,
		now.Format(time.RFC3339),
	); err != nil {
		err := apperror.Infrastructure("could not insert approval", err)
		log.Error(err)
		return false, err
	}

	if err := tx.Commit(); err != nil {
		err := apperror.Infrastructure("could not commit transaction", err)
		log.Error(err)
		return false, err
	}
	return true, nil
}

func (r *RepoImpl) SumAmounts(ctx context.Context, userId int, status Status) (int64, int64, error) {
	query := `SELECT COALESCE(SUM(total_cents), 0), COALESCE(SUM(spent_cents), 0)
				FROM budgets WHERE created_by = ? AND status = ?`
	var total, spent int64
	if err := r.db.QueryRowContext(ctx, query, userId, status).Scan(&total, &spent); err != nil {
		log.Errorf("could not sum budget amounts: %v", err)
		return 0, 0, apperror.Infrastructure("could not sum budget amounts", err)
	}
	return total, spent, nil
}

func (r *RepoImpl) StoreItem(ctx context.Context, item Item) (int, error) {
	query := `INSERT INTO budget_items (budget_id, category, description, amount_cents, spent_cents, cost_center)
				VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		item.BudgetID,
		item.Category,
		item.Description,
		item.AmountCents,
		item.SpentCents,
		item.CostCenter,
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

func (r *RepoImpl) UpdateItem(ctx context.Context, item Item) (bool, error) {
	query := `UPDATE budget_items SET category = ?, description = ?, amount_cents = ?, spent_cents = ?, cost_center = ?
				WHERE id = ? AND budget_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		item.Category,
		item.Description,
		item.AmountCents,
		item.SpentCents,
		item.CostCenter,
		item.ID,
		item.BudgetID,
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

func (r *RepoImpl) DeleteItem(ctx context.Context, budgetId int, itemId int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budget_items WHERE id = ? AND budget_id = ?`, itemId, budgetId)
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
