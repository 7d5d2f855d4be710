package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateEntry inserts a fresh tracking entry in PENDING_ASSIGNMENT for an
// order entering a department. Callers must close any prior open entry first;
// ForceCompleteOpen exists for that purpose.
func (s *Store) CreateEntry(ctx context.Context, orderID int64, departmentID string) (*Entry, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO tracking_entries (order_id, department_id, status, entered_at, completion_percent)
         VALUES (?, ?, ?, ?, 0)`,
		orderID,
		departmentID,
		EntryPendingAssignment,
		timestamp(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert tracking entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEntry(ctx, id)
}

// GetEntry fetches a tracking entry by identifier.
func (s *Store) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM tracking_entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tracking entry: %w", err)
	}
	return entry, nil
}

// OpenEntry returns the order's single non-completed tracking entry, if any.
func (s *Store) OpenEntry(ctx context.Context, orderID int64) (*Entry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+entryColumns+` FROM tracking_entries
         WHERE order_id = ? AND status != ? ORDER BY id DESC LIMIT 1`,
		orderID,
		EntryCompleted,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}
	return entry, nil
}

// OpenEntryFor returns the order's non-completed entry in a specific
// department, if any.
func (s *Store) OpenEntryFor(ctx context.Context, orderID int64, departmentID string) (*Entry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+entryColumns+` FROM tracking_entries
         WHERE order_id = ? AND department_id = ? AND status != ? ORDER BY id DESC LIMIT 1`,
		orderID,
		departmentID,
		EntryCompleted,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open entry for department: %w", err)
	}
	return entry, nil
}

// EntriesForOrder returns the order's full visit history, oldest first. This
// feeds the timeline view.
func (s *Store) EntriesForOrder(ctx context.Context, orderID int64) ([]*Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM tracking_entries WHERE order_id = ? ORDER BY entered_at, id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("entries for order: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// OpenEntriesByDepartment returns all non-completed entries in a department,
// oldest first. This feeds the board projection.
func (s *Store) OpenEntriesByDepartment(ctx context.Context, departmentID string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM tracking_entries
         WHERE department_id = ? AND status != ? ORDER BY entered_at, id`,
		departmentID,
		EntryCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("open entries by department: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateEntry persists changes to an existing tracking entry.
func (s *Store) UpdateEntry(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE tracking_entries
         SET status = ?, worker_id = ?, started_at = ?, exited_at = ?, completion_percent = ?
         WHERE id = ?`,
		entry.Status,
		nullableID(entry.WorkerID),
		nullableTime(entry.StartedAt),
		nullableTime(entry.ExitedAt),
		entry.CompletionPercent,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update tracking entry: %w", err)
	}
	return nil
}

// ForceCompleteOpen closes every non-completed entry for the order with the
// given exit time and returns how many rows were closed. The sequential
// invariant means this should affect at most one row; the blanket UPDATE also
// repairs any drift.
func (s *Store) ForceCompleteOpen(ctx context.Context, orderID int64, exitedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE tracking_entries SET status = ?, exited_at = ? WHERE order_id = ? AND status != ?`,
		EntryCompleted,
		timestamp(exitedAt),
		orderID,
		EntryCompleted,
	)
	if err != nil {
		return 0, fmt.Errorf("force-complete open entries: %w", err)
	}
	return res.RowsAffected()
}

// WorkloadFor counts a worker's in-progress entries.
func (s *Store) WorkloadFor(ctx context.Context, workerID int64) (int, error) {
	var count int
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM tracking_entries WHERE worker_id = ? AND status = ?`,
		workerID,
		EntryInProgress,
	)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("workload for worker: %w", err)
	}
	return count, nil
}

const entryColumns = "id, order_id, department_id, status, worker_id, entered_at, started_at, exited_at, completion_percent"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id           int64
		orderID      int64
		departmentID string
		status       string
		workerID     sql.NullInt64
		enteredRaw   string
		startedRaw   sql.NullString
		exitedRaw    sql.NullString
		percent      sql.NullFloat64
	)

	if err := scanner.Scan(&id, &orderID, &departmentID, &status, &workerID, &enteredRaw, &startedRaw, &exitedRaw, &percent); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:                id,
		OrderID:           orderID,
		DepartmentID:      departmentID,
		Status:            EntryStatus(status),
		CompletionPercent: percent.Float64,
	}
	if workerID.Valid {
		value := workerID.Int64
		entry.WorkerID = &value
	}
	if entered, err := parseTimeString(enteredRaw); err == nil {
		entry.EnteredAt = entered
	}
	if startedRaw.Valid {
		if started, err := parseTimeString(startedRaw.String); err == nil {
			entry.StartedAt = &started
		}
	}
	if exitedRaw.Valid {
		if exited, err := parseTimeString(exitedRaw.String); err == nil {
			entry.ExitedAt = &exited
		}
	}
	return entry, nil
}
