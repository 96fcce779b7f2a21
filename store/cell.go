// Package store implements the block store per disk: the circular
// array of cells, the slice index over it, and the two head cursors
// that move across it (spec §3 Disk/Slice rows, §4.1 step 4 best-fit
// placement, §4.6 GC). Cells and slices are referenced only by
// (disk-id, position) / (disk-id, slice-id) pairs from the outside —
// per spec §9 Design Notes, "Arena + index for cells and slices" —
// never by pointer, so the object table (package catalog) can keep
// replica positions as plain integers.
package store

// Cell is one addressable unit of storage on a disk, 1-indexed within
// its disk. ObjectID == 0 means empty.
type Cell struct {
	ObjectID   int
	ObjectSize int
	Tag        int
	BlockIndex int // which of the object's 1..Size blocks this is
	Pending    int // outstanding read-request count on this cell

	// LastQueryTick is observability-only telemetry (SPEC_FULL.md §C,
	// grounded on original_source/src/structures.hpp's
	// last_query_time): no scheduling decision reads it.
	LastQueryTick int
}

// Empty reports whether the cell currently holds no object.
func (c *Cell) Empty() bool { return c.ObjectID == 0 }

// Clear resets a cell to the empty state. Callers are responsible for
// updating the owning slice's aggregates beforehand (see
// Disk.FreeCell).
func (c *Cell) Clear() {
	*c = Cell{}
}
