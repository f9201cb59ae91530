package approval

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

var ErrApprovalNotFound = errors.New("approval not found")

type Repo interface {
	Get(ctx context.Context, id int) (Approval, error)
	ListForBudget(ctx context.Context, budgetId int) ([]Approval, error)
	ListPending(ctx context.Context) ([]Approval, error)
	// Decide stamps the reviewer and decision. The status guard keeps it a
	// no-op unless the approval is still pending.
	Decide(ctx context.Context, id int, reviewerId int, status Status, comments string, now time.Time) (bool, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewApprovalRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const approvalColumns = `a.id, a.budget_id, b.title, a.reviewer_id,
				COALESCE(u.first_name || ' ' || u.last_name, ''), a.status, a.level, a.comments, a.created_at, a.reviewed_at`

const approvalJoins = ` FROM approvals a
				JOIN budgets b ON b.id = a.budget_id
				LEFT JOIN users u ON u.id = a.reviewer_id`

func (r *RepoImpl) Get(ctx context.Context, id int) (Approval, error) {
	query := `SELECT ` + approvalColumns + approvalJoins + ` WHERE a.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	approval, err := scanApproval(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Approval{}, ErrApprovalNotFound
	} else if err != nil {
		log.Errorf("could not get approval %d: %v", id, err)
		return Approval{}, apperror.Infrastructure("could not get approval", err)
	}
	return approval, nil
}

func (r *RepoImpl) ListForBudget(ctx context.Context, budgetId int) ([]Approval, error) {
	query := `SELECT ` + approvalColumns + approvalJoins + ` WHERE a.budget_id = ? ORDER BY a.created_at, a.id`
	return r.list(ctx, query, budgetId)
}

func (r *RepoImpl) ListPending(ctx context.Context) ([]Approval, error) {
	query := `SELECT ` + approvalColumns + approvalJoins + ` WHERE a.status = ? ORDER BY a.created_at, a.id`
	return r.list(ctx, query, StatusPending)
}

func (r *RepoImpl) list(ctx context.Context, query string, args ...any) ([]Approval, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := apperror.Infrastructure("could not query approvals", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var approvals []Approval
	for rows.Next() {
		approval, err := scanApproval(rows.Scan)
		if err != nil {
			err := apperror.Infrastructure("could not scan approval", err)
			log.Error(err)
			return nil, err
		}
		approvals = append(approvals, approval)
	}
	if err := rows.Err(); err != nil {
		err := apperror.Infrastructure("error iterating over rows", err)
		log.Error(err)
		return nil, err
	}
	return approvals, nil
}

func scanApproval(scan func(dest ...any) error) (Approval, error) {
	var approval Approval
	var reviewerId sql.NullInt64
	var createdAt string
	var reviewedAt sql.NullString
	err := scan(
		&approval.ID,
		&approval.BudgetID,
		&approval.BudgetTitle,
		&reviewerId,
		&approval.ReviewerName,
		&approval.Status,
		&approval.Level,
		&approval.Comments,
		&createdAt,
		&reviewedAt,
	)
	if err != nil {
		return Approval{}, err
	}
	if reviewerId.Valid {
		id := int(reviewerId.Int64)
		approval.ReviewerID = &id
	}
	if approval.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
		return Approval{}, fmt.Errorf("could not parse created_at: %w", err)
	}
	if reviewedAt.Valid {
		t, err := utils.ParseTimestamp(reviewedAt.String)
		if err != nil {
			return Approval{}, fmt.Errorf("could not parse reviewed_at: %w", err)
		}
		approval.ReviewedAt = &t
	}
	return approval, nil
}

func (r *RepoImpl) Decide(ctx context.Context, id int, reviewerId int, status Status, comments string, now time.Time) (bool, error) {
	query := `UPDATE approvals SET reviewer_id = ?, status = ?, comments = ?, reviewed_at = ?
				WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, query,
		reviewerId,
		status,
		comments,
		now.Format(time.RFC3339),
		id,
		StatusPending,
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

func (r *RepoImpl) CountByStatus(ctx context.Context, status Status) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM approvals WHERE status = ?`, status).Scan(&count); err != nil {
		log.Errorf("could not count approvals: %v", err)
		return 0, apperror.Infrastructure("could not count approvals", err)
	}
	return count, nil
}
