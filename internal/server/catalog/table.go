package catalog

import (
	"maps"
	"slices"
)

// table is an id-keyed set of rows. Callers hold the store lock.
type table[T any] struct {
	next int64
	rows map[int64]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

func (t *table[T]) insert(build func(id int64) T) T {
	t.next++
	row := build(t.next)
	t.rows[t.next] = row
	return row
}

func (t *table[T]) get(id int64) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id int64, row T) {
	t.rows[id] = row
}

func (t *table[T]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// list returns the rows accepted by keep in id order. A nil keep accepts
// everything.
func (t *table[T]) list(keep func(T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for _, id := range slices.Sorted(maps.Keys(t.rows)) {
		if row := t.rows[id]; keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}
