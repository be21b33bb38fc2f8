package taskpostgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/wb-go/wbf/dbpg"

	"github.com/pixelforge/stampd/internal/model"
)

type PostgresRepo struct {
	DB *dbpg.DB
}

func (p PostgresRepo) Create(ctx context.Context, n *model.Task) error {
	query := `INSERT INTO tasks (task_uid, source_key, wm_key, result_keys, source_kind, operation, params, page_count, status, err_msg, created_at, updated_at )
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := p.DB.Master.ExecContext(ctx, query,
		n.UID,
		n.SourceKey,
		n.WatermarkKey,
		n.ResultKeys,
		n.SourceKind,
		n.Operation,
		n.Params,
		n.PageCount,
		n.Status,
		n.ErrMsg,
		n.CreatedAt,
		n.CreatedAt)
	return err
}

// Get returns sql.ErrNoRows as is - маппинг на 404 делает сервисный слой
func (p PostgresRepo) Get(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT task_uid, source_key, wm_key, result_keys, source_kind, operation, params, page_count, status, err_msg, created_at, updated_at
	FROM tasks
	WHERE task_uid = $1`
	var task model.Task

	err := p.DB.QueryRowContext(ctx, query, id).Scan(&task.UID,
		&task.SourceKey,
		&task.WatermarkKey,
		&task.ResultKeys,
		&task.SourceKind,
		&task.Operation,
		&task.Params,
		&task.PageCount,
		&task.Status,
		&task.ErrMsg,
		&task.CreatedAt,
		&task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (p PostgresRepo) GetList(ctx context.Context, req *model.ListRequest) ([]model.Task, error) {
	// Sort и Order приходят только из белого списка сервиса
	query := fmt.Sprintf(`SELECT task_uid, source_kind, operation, params, page_count, status, err_msg, created_at, updated_at
	FROM tasks
	ORDER BY %s %s
	LIMIT $1
	OFFSET $2`, req.Sort, req.Order)

	offset := (req.Page - 1) * req.Limit

	rows, err := p.DB.QueryContext(ctx, query, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Error while closing *sql.Rows after scanning: %v", err)
		}
	}()

	tasks := make([]model.Task, 0, req.Limit)
	for rows.Next() {
		var task model.Task
		if err := rows.Scan(&task.UID,
			&task.SourceKind,
			&task.Operation,
			&task.Params,
			&task.PageCount,
			&task.Status,
			&task.ErrMsg,
			&task.CreatedAt,
			&task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return tasks, nil
}

func (p PostgresRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks
	WHERE task_uid = $1`

	res, err := p.DB.Master.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return noRowsAsNotFound(res)
}

func (p PostgresRepo) UpdateStatus(ctx context.Context, id string, newStat model.Status) error {
	query := `UPDATE tasks SET status = $1, updated_at = now() WHERE task_uid = $2`

	res, err := p.DB.Master.ExecContext(ctx, query, newStat, id)
	if err != nil {
		return err
	}

	return noRowsAsNotFound(res)
}

func (p PostgresRepo) SaveResult(ctx context.Context, input *model.Task) error {
	query := `UPDATE tasks SET status = $1, updated_at = $2, result_keys = $3, err_msg = $4 WHERE task_uid = $5`

	res, err := p.DB.Master.ExecContext(ctx, query, input.Status, input.UpdatedAt, input.ResultKeys, input.ErrMsg, input.UID)
	if err != nil {
		return err
	}

	return noRowsAsNotFound(res)
}

func (p PostgresRepo) FetchOrphans(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT task_uid
	FROM tasks
	WHERE status IN ($1, $2)
	AND updated_at < now() - interval '10 minutes'
	LIMIT $3`

	rows, err := p.DB.QueryContext(ctx, query, model.StatusCreated, model.StatusInProgress, limit)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Error while closing *sql.Rows after scanning: %v", err)
		}
	}()

	orphans := make([]string, 0, limit)
	for rows.Next() {
		uid := ""
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		orphans = append(orphans, uid)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return orphans, nil
}

// noRowsAsNotFound converts a zero rows-affected outcome to sql.ErrNoRows so
// that callers treat a missing row the same way for queries and execs.
func noRowsAsNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
