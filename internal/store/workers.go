package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AddWorker registers a worker in their home department.
func (s *Store) AddWorker(ctx context.Context, name, departmentID string) (*Worker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("worker name is required")
	}

	ref := "wrk-" + uuid.NewString()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO workers (ref, name, department_id, active, created_at) VALUES (?, ?, ?, 1, ?)`,
		ref,
		name,
		departmentID,
		timestamp(time.Now().UTC()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert worker: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetWorker(ctx, id)
}

// GetWorker fetches a worker by internal identifier, workload included.
func (s *Store) GetWorker(ctx context.Context, id int64) (*Worker, error) {
	row := s.db.QueryRowContext(ctx, workerQuery+` WHERE w.id = ?`, EntryInProgress, id)
	worker, err := scanWorker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get worker: %w", err)
	}
	return worker, nil
}

// GetWorkerByRef fetches a worker by public reference.
func (s *Store) GetWorkerByRef(ctx context.Context, ref string) (*Worker, error) {
	row := s.db.QueryRowContext(ctx, workerQuery+` WHERE w.ref = ?`, EntryInProgress, strings.TrimSpace(ref))
	worker, err := scanWorker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get worker by ref: %w", err)
	}
	return worker, nil
}

// SetWorkerActive flips a worker's availability flag.
func (s *Store) SetWorkerActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE workers SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("set worker active: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("worker %d not found", id)
	}
	return nil
}

// ListWorkers returns every worker, home department and workload included.
func (s *Store) ListWorkers(ctx context.Context) ([]*Worker, error) {
	rows, err := s.db.QueryContext(ctx, workerQuery+` ORDER BY w.department_id, w.id`, EntryInProgress)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()
	return collectWorkers(rows)
}

// ListAvailableWorkers returns active workers homed in a department with
// their current workloads, ordered by worker id. Workload is recomputed on
// every call rather than cached, so resolutions never act on stale counts.
func (s *Store) ListAvailableWorkers(ctx context.Context, departmentID string) ([]*Worker, error) {
	rows, err := s.db.QueryContext(
		ctx,
		workerQuery+` WHERE w.department_id = ? AND w.active = 1 ORDER BY w.id`,
		EntryInProgress,
		departmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list available workers: %w", err)
	}
	defer rows.Close()
	return collectWorkers(rows)
}

const workerQuery = `SELECT w.id, w.ref, w.name, w.department_id, w.active, w.created_at,
    (SELECT COUNT(1) FROM tracking_entries e WHERE e.worker_id = w.id AND e.status = ?) AS workload
    FROM workers w`

func collectWorkers(rows *sql.Rows) ([]*Worker, error) {
	var workers []*Worker
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}
	return workers, rows.Err()
}

func scanWorker(scanner interface{ Scan(dest ...any) error }) (*Worker, error) {
	var (
		id           int64
		ref          string
		name         string
		departmentID string
		active       int
		createdRaw   string
		workload     int
	)
	if err := scanner.Scan(&id, &ref, &name, &departmentID, &active, &createdRaw, &workload); err != nil {
		return nil, err
	}
	worker := &Worker{
		ID:           id,
		Ref:          ref,
		Name:         name,
		DepartmentID: departmentID,
		Active:       active != 0,
		Workload:     workload,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		worker.CreatedAt = created
	}
	return worker, nil
}
