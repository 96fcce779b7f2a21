package catalog

// Table is the object table and the request index in one structure
// (spec §3 Object table / Request index rows). Per spec §9 Design
// Notes ("replace hash-based tables with dense integer-keyed mappings
// where id ranges are known"), both are backed by plain slices indexed
// directly by id rather than maps: object and request ids are dense,
// small, monotonically-issued integers for the lifetime of a run, so a
// growable slice beats a hash map on every axis that matters here
// (lookup cost, GC pressure, iteration locality).
type Table struct {
	objects []*Object // objects[id], nil if absent; objects[0] unused
	reqObj  []int     // reqObj[reqID] = owning object id, 0 if absent
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{objects: make([]*Object, 1), reqObj: make([]int, 1)}
}

func growInt(s []int, n int) []int {
	for len(s) <= n {
		s = append(s, 0)
	}
	return s
}

func growObj(s []*Object, n int) []*Object {
	for len(s) <= n {
		s = append(s, nil)
	}
	return s
}

// Put installs a newly-placed object.
func (t *Table) Put(o *Object) {
	t.objects = growObj(t.objects, o.ID)
	t.objects[o.ID] = o
}

// Get returns the object record for id, or nil if it does not exist
// (already deleted, or never written).
func (t *Table) Get(id int) *Object {
	if id <= 0 || id >= len(t.objects) {
		return nil
	}
	return t.objects[id]
}

// Delete removes an object's record and every request-index entry
// pointing at it. It does not touch store/gain state — the caller
// (package lifecycle) is responsible for releasing cells and gain
// buckets before or after calling Delete.
func (t *Table) Delete(id int) *Object {
	o := t.Get(id)
	if o == nil {
		return nil
	}
	t.objects[id] = nil
	for reqID := range o.Pending {
		if reqID < len(t.reqObj) {
			t.reqObj[reqID] = 0
		}
	}
	return o
}

// ForEach calls fn for every live object, in ascending id order
// (spec §9: "sort prior to emit" — ascending id is the table's own
// natural iteration order since it's slice-indexed by id already).
func (t *Table) ForEach(fn func(o *Object)) {
	for id := 1; id < len(t.objects); id++ {
		if o := t.objects[id]; o != nil {
			fn(o)
		}
	}
}

// IndexRequest records that reqID belongs to objectID.
func (t *Table) IndexRequest(reqID, objectID int) {
	t.reqObj = growInt(t.reqObj, reqID)
	t.reqObj[reqID] = objectID
}

// UnindexRequest drops reqID from the request index (completion,
// abandonment, timeout, or parent deletion).
func (t *Table) UnindexRequest(reqID int) {
	if reqID > 0 && reqID < len(t.reqObj) {
		t.reqObj[reqID] = 0
	}
}

// ObjectOf returns the object id owning reqID, or 0 if unknown.
func (t *Table) ObjectOf(reqID int) int {
	if reqID <= 0 || reqID >= len(t.reqObj) {
		return 0
	}
	return t.reqObj[reqID]
}

// Request looks up the live PendingRequest for reqID, or nil.
func (t *Table) Request(reqID int) (*Object, *PendingRequest) {
	objID := t.ObjectOf(reqID)
	if objID == 0 {
		return nil, nil
	}
	o := t.Get(objID)
	if o == nil {
		return nil, nil
	}
	return o, o.Pending[reqID]
}
