package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Enqueue appends an order at the back of a department's queue and returns its
// position. Enqueueing an order already queued in that department is an
// idempotent no-op that returns the existing position.
//
// Positions within a department are a dense 0..n-1 sequence; this is part of
// the external queue-position contract, so every mutation here runs in a
// transaction.
func (s *Store) Enqueue(ctx context.Context, departmentID string, orderID int64) (int, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin enqueue tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	err = tx.QueryRowContext(
		ctx,
		`SELECT position FROM queue_entries WHERE department_id = ? AND order_id = ?`,
		departmentID,
		orderID,
	).Scan(&existing)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("check existing queue entry: %w", err)
	}

	var next int
	err = tx.QueryRowContext(
		ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM queue_entries WHERE department_id = ?`,
		departmentID,
	).Scan(&next)
	if err != nil {
		return 0, false, fmt.Errorf("next queue position: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO queue_entries (department_id, order_id, position, queued_at) VALUES (?, ?, ?, ?)`,
		departmentID,
		orderID,
		next,
		timestamp(time.Now().UTC()),
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert queue entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit enqueue: %w", err)
	}
	return next, false, nil
}

// PeekFront returns the lowest-position entry of a department's queue without
// removing it. Returns nil when the queue is empty. Removal is a separate step
// so a caller that cannot place the order leaves the queue untouched.
func (s *Store) PeekFront(ctx context.Context, departmentID string) (*QueueEntry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+queueColumns+` FROM queue_entries q
         JOIN orders o ON o.id = q.order_id
         WHERE q.department_id = ? ORDER BY q.position LIMIT 1`,
		departmentID,
	)
	entry, err := scanQueueEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("front queue entry: %w", err)
	}
	return entry, nil
}

// RemoveQueued deletes an order's queue entry in a department, compacting the
// positions behind it. Reports whether an entry was actually removed.
func (s *Store) RemoveQueued(ctx context.Context, departmentID string, orderID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin remove tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var position int
	err = tx.QueryRowContext(
		ctx,
		`SELECT position FROM queue_entries WHERE department_id = ? AND order_id = ?`,
		departmentID,
		orderID,
	).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find queue entry: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`DELETE FROM queue_entries WHERE department_id = ? AND order_id = ?`,
		departmentID,
		orderID,
	)
	if err != nil {
		return false, fmt.Errorf("delete queue entry: %w", err)
	}
	if err := compactPositions(ctx, tx, departmentID, position); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit remove: %w", err)
	}
	return true, nil
}

// QueueFor returns a department's queue in position order.
func (s *Store) QueueFor(ctx context.Context, departmentID string) ([]*QueueEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+queueColumns+` FROM queue_entries q
         JOIN orders o ON o.id = q.order_id
         WHERE q.department_id = ? ORDER BY q.position`,
		departmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("department queue: %w", err)
	}
	defer rows.Close()

	var entries []*QueueEntry
	for rows.Next() {
		entry, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// QueuePosition returns an order's position in a department queue.
func (s *Store) QueuePosition(ctx context.Context, departmentID string, orderID int64) (int, bool, error) {
	var position int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT position FROM queue_entries WHERE department_id = ? AND order_id = ?`,
		departmentID,
		orderID,
	).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("queue position: %w", err)
	}
	return position, true, nil
}

// QueueLength counts queue entries for a department.
func (s *Store) QueueLength(ctx context.Context, departmentID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM queue_entries WHERE department_id = ?`, departmentID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("queue length: %w", err)
	}
	return count, nil
}

func compactPositions(ctx context.Context, tx *sql.Tx, departmentID string, removedPosition int) error {
	_, err := tx.ExecContext(
		ctx,
		`UPDATE queue_entries SET position = position - 1 WHERE department_id = ? AND position > ?`,
		departmentID,
		removedPosition,
	)
	if err != nil {
		return fmt.Errorf("compact queue positions: %w", err)
	}
	return nil
}

const queueColumns = "q.id, q.department_id, q.order_id, o.ref, o.priority, q.position, q.queued_at"

func scanQueueEntry(scanner interface{ Scan(dest ...any) error }) (*QueueEntry, error) {
	var (
		id           int64
		departmentID string
		orderID      int64
		orderRef     string
		priority     string
		position     int
		queuedRaw    string
	)
	if err := scanner.Scan(&id, &departmentID, &orderID, &orderRef, &priority, &position, &queuedRaw); err != nil {
		return nil, err
	}
	entry := &QueueEntry{
		ID:           id,
		DepartmentID: departmentID,
		OrderID:      orderID,
		OrderRef:     orderRef,
		Priority:     Priority(priority),
		Position:     position,
	}
	if queued, err := parseTimeString(queuedRaw); err == nil {
		entry.QueuedAt = queued
	}
	return entry, nil
}
