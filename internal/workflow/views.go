package workflow

import (
	"context"

	"atelier/internal/services"
)

// DepartmentQueue returns the FIFO snapshot for one department. Positions are
// always a dense 0..n-1 sequence.
func (o *Orchestrator) DepartmentQueue(ctx context.Context, departmentID string) (QueueSnapshot, error) {
	dept, err := o.department(departmentID)
	if err != nil {
		return QueueSnapshot{}, err
	}

	entries, err := o.store.QueueFor(ctx, dept.ID)
	if err != nil {
		return QueueSnapshot{}, services.Wrap(services.ErrInternal, "orchestrator", "read queue", "", err)
	}

	snapshot := QueueSnapshot{
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		Length:         len(entries),
		Entries:        make([]QueuedOrder, 0, len(entries)),
	}
	for _, entry := range entries {
		snapshot.Entries = append(snapshot.Entries, QueuedOrder{
			OrderRef: entry.OrderRef,
			Priority: entry.Priority,
			Position: entry.Position,
			QueuedAt: entry.QueuedAt,
		})
	}
	return snapshot, nil
}
