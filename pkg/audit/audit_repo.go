package audit

import (
	"context"
	"database/sql"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, entry Entry) (int, error)
	ListForUser(ctx context.Context, userId int, limit int) ([]Entry, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, entry Entry) (int, error) {
	query := `INSERT INTO audit_logs (user_id, action, entity_type, entity_id, old_values, new_values, timestamp)
				VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		entry.UserId,
		entry.Action,
		entry.EntityType,
		entry.EntityId,
		entry.OldValues,
		entry.NewValues,
		entry.Timestamp.Format("2006-01-02 15:04:05"),
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

func (r *RepoImpl) ListForUser(ctx context.Context, userId int, limit int) ([]Entry, error) {
	query := `SELECT id, user_id, action, entity_type, entity_id, old_values, new_values, timestamp
				FROM audit_logs WHERE user_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userId, limit)
	if err != nil {
		err := apperror.Infrastructure("could not query audit logs", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var timestamp string
		if err := rows.Scan(
			&entry.Id,
			&entry.UserId,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityId,
			&entry.OldValues,
			&entry.NewValues,
			&timestamp,
		); err != nil {
			err := apperror.Infrastructure("could not scan audit log", err)
			log.Error(err)
			return nil, err
		}
		entry.Timestamp, err = utils.ParseTimestamp(timestamp)
		if err != nil {
			err := apperror.Infrastructure("could not parse audit timestamp", err)
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
