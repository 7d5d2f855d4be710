// Package board folds tracking entries into the kanban columns the UI
// renders. The projection is purely derived read-model state: it is
// recomputed on every read and never influences writes.
package board
