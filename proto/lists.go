package proto

import (
	"strconv"
	"strings"

	"github.com/coralstore/diskctl/placement"
)

// ReadIDs reads a `<count>` followed by count ids.
func (r *Reader) ReadIDs() []int {
	n := r.Int()
	ids := make([]int, n)
	for i := range ids {
		ids[i] = r.Int()
	}
	return ids
}

// WriteIDs writes a `<count>` followed by each id on its own line.
func (w *Writer) WriteIDs(ids []int) {
	w.Int(len(ids))
	for _, id := range ids {
		w.Int(id)
	}
}

// ReadWrites reads the write-batch section: `<n_write>` lines of
// `<id> <size> <tag>`.
func (r *Reader) ReadWrites() []placement.Request {
	n := r.Int()
	out := make([]placement.Request, n)
	for i := range out {
		out[i] = placement.Request{ObjectID: r.Int(), Size: r.Int(), Tag: r.Int()}
	}
	return out
}

// ReadRequest is one incoming read event: `<req-id> <object-id>`.
type ReadRequest struct {
	ReqID    int
	ObjectID int
}

// ReadReads reads the read-batch section: `<n_read>` lines of
// `<req-id> <object-id>`.
func (r *Reader) ReadReads() []ReadRequest {
	n := r.Int()
	out := make([]ReadRequest, n)
	for i := range out {
		out[i] = ReadRequest{ReqID: r.Int(), ObjectID: r.Int()}
	}
	return out
}

// WritePlacement writes one committed placement: the object id line,
// then one line per replica of `<disk-id> <pos1> ... <posS>`.
func (w *Writer) WritePlacement(res placement.Result) {
	w.Int(res.ObjectID)
	for _, rep := range res.Replicas {
		var b strings.Builder
		b.WriteString(strconv.Itoa(rep.Disk))
		for _, p := range rep.Positions[1:] {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(p))
		}
		w.Line(b.String())
	}
}
