// Package catalog owns the object table and the request index (spec
// §3 Object/ReadRequest rows): the one place that maps object and
// request ids to their records. It never owns cells or slices — those
// stay with package store — it only keeps the replica (disk, slice,
// position) triples as plain integers, per spec §9's "arena + index"
// design note.
package catalog

// Replica is one of an object's three placements.
type Replica struct {
	Disk      int
	Slice     int
	Positions []int // 1..Size cell positions within Slice, Positions[0] unused like the source model
	MaxPos    int    // max(Positions[1:]); recomputed after GC moves cells
}

// PendingRequest is one outstanding read against an object, tracked
// with its arrival tick and a per-block "already read" bitmap shared
// across all three replicas (spec §3: "per-block read bitmap").
type PendingRequest struct {
	ReqID   int
	Arrival int
	Read    []bool // 1..Size, Read[0] unused
	ReadCnt int
}

// Object is the full record for one stored object (spec §3 Object row).
type Object struct {
	ID       int
	Size     int
	Tag      int
	Replicas [3]Replica

	// Pending maps request-id -> *PendingRequest for O(1) lookup by
	// id (Go map iteration order is randomized; FIFO order is
	// reconstructed from Arrival, see
	// Object.PendingByArrival, whenever iteration order must be
	// deterministic for emitted output, per spec §9's "sort prior to
	// emit").
	Pending map[int]*PendingRequest

	// PerBlockPending[i] = number of live requests still needing
	// block i read from some replica (spec §3: "per-block pending
	// count").
	PerBlockPending []int
}

// NewObject builds an Object record from a committed placement.
func NewObject(id, size, tag int, replicas [3]Replica) *Object {
	return &Object{
		ID:              id,
		Size:            size,
		Tag:             tag,
		Replicas:        replicas,
		Pending:         make(map[int]*PendingRequest),
		PerBlockPending: make([]int, size+1),
	}
}

// AddRequest registers a new read request against this object,
// incrementing per-block pending counts (spec §4.5: "increment
// per-block pending counts on all three replicas" — the per-object
// counters here are replica-independent; Engine propagates the same
// delta to each replica's slice/cell counters in package store).
func (o *Object) AddRequest(reqID, arrival int) *PendingRequest {
	pr := &PendingRequest{ReqID: reqID, Arrival: arrival, Read: make([]bool, o.Size+1)}
	o.Pending[reqID] = pr
	for i := 1; i <= o.Size; i++ {
		o.PerBlockPending[i]++
	}
	return pr
}

// MarkBlockRead records that block `block` has now been read on some
// replica, for every pending request that had not yet seen it, and
// returns the ids of requests that are now fully read (all Size
// blocks). It does not remove them from o.Pending — call RemoveRequest
// for each completed id once the caller has finished acting on it.
func (o *Object) MarkBlockRead(block int) []int {
	var completed []int
	for id, pr := range o.Pending {
		if pr.Read[block] {
			continue
		}
		pr.Read[block] = true
		pr.ReadCnt++
		o.PerBlockPending[block]--
		if pr.ReadCnt == o.Size {
			completed = append(completed, id)
		}
	}
	return completed
}

// RemoveRequest drops a request from the object's pending set without
// touching per-block counters (the caller has already accounted for
// them, or the request is being dropped precisely because it's
// abandoned/timed-out/orphaned and its counters were already
// decremented at the point of cancellation).
func (o *Object) RemoveRequest(reqID int) {
	delete(o.Pending, reqID)
}

// PendingByArrival returns pending requests sorted by (arrival,
// req-id) ascending, the deterministic FIFO order spec §3 calls for.
func (o *Object) PendingByArrival() []*PendingRequest {
	out := make([]*PendingRequest, 0, len(o.Pending))
	for _, pr := range o.Pending {
		out = append(out, pr)
	}
	sortPendingRequests(out)
	return out
}

func sortPendingRequests(prs []*PendingRequest) {
	// insertion sort: pending-request lists are short (bounded by how
	// many reads target one object concurrently), and this keeps the
	// comparator trivial to eyeball against spec's FIFO requirement.
	for i := 1; i < len(prs); i++ {
		j := i
		for j > 0 && less(prs[j], prs[j-1]) {
			prs[j], prs[j-1] = prs[j-1], prs[j]
			j--
		}
	}
}

func less(a, b *PendingRequest) bool {
	if a.Arrival != b.Arrival {
		return a.Arrival < b.Arrival
	}
	return a.ReqID < b.ReqID
}
