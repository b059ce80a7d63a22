// Package store persists games as opaque records. The engine decides what
// goes into Record.Data; the store only keys, orders and versions it.
package store

import (
	"sort"
	"time"
)

// Record is one persisted game.
type Record struct {
	ID        string
	Name      string
	Status    int
	Sequence  int
	UpdatedAt time.Time
	Data      []byte
}

// sortRecords orders records newest first, then by id for stability.
func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		}
		return records[i].ID < records[j].ID
	})
}
