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

// CreateOrder inserts a new draft order and mints its public reference.
func (s *Store) CreateOrder(ctx context.Context, description string, priority Priority) (*Order, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("order description is required")
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if _, ok := prioritySet[priority]; !ok {
		return nil, fmt.Errorf("unknown priority %q", priority)
	}

	now := time.Now().UTC()
	ref := "ord-" + uuid.NewString()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO orders (ref, description, priority, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		ref,
		nullableString(strings.TrimSpace(description)),
		priority,
		OrderDraft,
		timestamp(now),
		timestamp(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetOrder(ctx, id)
}

// GetOrder fetches an order by internal identifier.
func (s *Store) GetOrder(ctx context.Context, id int64) (*Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// GetOrderByRef fetches an order by its public reference.
func (s *Store) GetOrderByRef(ctx context.Context, ref string) (*Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE ref = ?`, strings.TrimSpace(ref))
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order by ref: %w", err)
	}
	return order, nil
}

// UpdateOrder persists the engine-owned fields: status and current department.
func (s *Store) UpdateOrder(ctx context.Context, order *Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	order.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE orders SET status = ?, current_department = ?, updated_at = ? WHERE id = ?`,
		order.Status,
		nullableString(order.CurrentDepartment),
		timestamp(order.UpdatedAt),
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// ListOrders returns orders filtered by status (or all when none is provided),
// oldest first.
func (s *Store) ListOrders(ctx context.Context, statuses ...OrderStatus) ([]*Order, error) {
	baseQuery := `SELECT ` + orderColumns + ` FROM orders`
	orderClause := ` ORDER BY created_at, id`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

const orderColumns = "id, ref, description, priority, status, current_department, created_at, updated_at"

func scanOrder(scanner interface{ Scan(dest ...any) error }) (*Order, error) {
	var (
		id          int64
		ref         string
		description sql.NullString
		priority    string
		status      string
		currentDept sql.NullString
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(&id, &ref, &description, &priority, &status, &currentDept, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	order := &Order{
		ID:                id,
		Ref:               ref,
		Description:       description.String,
		Priority:          Priority(priority),
		Status:            OrderStatus(status),
		CurrentDepartment: currentDept.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		order.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		order.UpdatedAt = updated
	}
	return order, nil
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
