// Package snapshot encodes a point-in-time checkpoint of the engine's
// disk state for offline inspection or crash diagnostics. It is never
// read back into a live run (spec §6: "Persisted state: none") — it
// exists purely as an optional debug artifact, written on request by
// package debugsrv.
package snapshot

import (
	"bytes"
	"io"

	"github.com/OneOfOne/xxhash"
	"github.com/pierrec/lz4/v3"
	"github.com/tinylib/msgp/msgp"

	"github.com/coralstore/diskctl/store"
)

// DiskSnapshot is one disk's cell array and head positions at the
// moment of capture.
type DiskSnapshot struct {
	ID    int            `json:"id"`
	Cells []CellSnapshot `json:"cells"`
	Head0 int            `json:"head0"`
	Head1 int            `json:"head1"`
}

// CellSnapshot mirrors store.Cell's fields that matter for offline
// inspection; LastQueryTick is included since it is precisely the
// kind of thing a human debugging session wants to see even though
// the engine itself never reads it.
type CellSnapshot struct {
	ObjectID      int `json:"object_id"`
	ObjectSize    int `json:"object_size"`
	Tag           int `json:"tag"`
	BlockIndex    int `json:"block_index"`
	Pending       int `json:"pending"`
	LastQueryTick int `json:"last_query_tick"`
}

// Snapshot is the full checkpoint: the tick it was taken at, and
// every disk's state.
type Snapshot struct {
	Tick  int            `json:"tick"`
	Disks []DiskSnapshot `json:"disks"`
}

// Build captures a Snapshot from live disk state. disks is 1-indexed
// (disks[0] unused).
func Build(tick int, disks []*store.Disk) Snapshot {
	out := Snapshot{Tick: tick, Disks: make([]DiskSnapshot, 0, len(disks)-1)}
	for i := 1; i < len(disks); i++ {
		d := disks[i]
		ds := DiskSnapshot{ID: d.ID, Head0: d.Heads[0].Position, Head1: d.Heads[1].Position}
		ds.Cells = make([]CellSnapshot, len(d.Cells))
		for p, c := range d.Cells {
			ds.Cells[p] = CellSnapshot{
				ObjectID: c.ObjectID, ObjectSize: c.ObjectSize, Tag: c.Tag,
				BlockIndex: c.BlockIndex, Pending: c.Pending, LastQueryTick: c.LastQueryTick,
			}
		}
		out.Disks = append(out.Disks, ds)
	}
	return out
}

// Encode serializes s as msgpack, lz4-compresses it, and returns the
// compressed payload together with an xxhash64 checksum of the
// uncompressed bytes (so corruption introduced by the compression or
// transport layer is independently detectable).
func Encode(s Snapshot) (payload []byte, checksum uint64, err error) {
	var raw bytes.Buffer
	mw := msgp.NewWriter(&raw)
	if err := encodeSnapshot(mw, s); err != nil {
		return nil, 0, err
	}
	if err := mw.Flush(); err != nil {
		return nil, 0, err
	}
	checksum = xxhash.Checksum64(raw.Bytes())

	var compressed bytes.Buffer
	zw := lz4.NewWriter(&compressed)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		return nil, 0, err
	}
	if err := zw.Close(); err != nil {
		return nil, 0, err
	}
	return compressed.Bytes(), checksum, nil
}

// Decode reverses Encode and verifies the checksum.
func Decode(payload []byte, wantChecksum uint64) (Snapshot, error) {
	zr := lz4.NewReader(bytes.NewReader(payload))
	raw, err := io.ReadAll(zr)
	if err != nil {
		return Snapshot{}, err
	}
	if xxhash.Checksum64(raw) != wantChecksum {
		return Snapshot{}, errChecksumMismatch
	}
	mr := msgp.NewReader(bytes.NewReader(raw))
	return decodeSnapshot(mr)
}

var errChecksumMismatch = io.ErrUnexpectedEOF

func encodeSnapshot(w *msgp.Writer, s Snapshot) error {
	if err := w.WriteInt(s.Tick); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(uint32(len(s.Disks))); err != nil {
		return err
	}
	for _, d := range s.Disks {
		if err := w.WriteInt(d.ID); err != nil {
			return err
		}
		if err := w.WriteInt(d.Head0); err != nil {
			return err
		}
		if err := w.WriteInt(d.Head1); err != nil {
			return err
		}
		if err := w.WriteArrayHeader(uint32(len(d.Cells))); err != nil {
			return err
		}
		for _, c := range d.Cells {
			if err := w.WriteInt(c.ObjectID); err != nil {
				return err
			}
			if err := w.WriteInt(c.ObjectSize); err != nil {
				return err
			}
			if err := w.WriteInt(c.Tag); err != nil {
				return err
			}
			if err := w.WriteInt(c.BlockIndex); err != nil {
				return err
			}
			if err := w.WriteInt(c.Pending); err != nil {
				return err
			}
			if err := w.WriteInt(c.LastQueryTick); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeSnapshot(r *msgp.Reader) (Snapshot, error) {
	var s Snapshot
	var err error
	if s.Tick, err = r.ReadInt(); err != nil {
		return s, err
	}
	nDisks, err := r.ReadArrayHeader()
	if err != nil {
		return s, err
	}
	s.Disks = make([]DiskSnapshot, nDisks)
	for i := range s.Disks {
		d := &s.Disks[i]
		if d.ID, err = r.ReadInt(); err != nil {
			return s, err
		}
		if d.Head0, err = r.ReadInt(); err != nil {
			return s, err
		}
		if d.Head1, err = r.ReadInt(); err != nil {
			return s, err
		}
		nCells, err := r.ReadArrayHeader()
		if err != nil {
			return s, err
		}
		d.Cells = make([]CellSnapshot, nCells)
		for j := range d.Cells {
			c := &d.Cells[j]
			if c.ObjectID, err = r.ReadInt(); err != nil {
				return s, err
			}
			if c.ObjectSize, err = r.ReadInt(); err != nil {
				return s, err
			}
			if c.Tag, err = r.ReadInt(); err != nil {
				return s, err
			}
			if c.BlockIndex, err = r.ReadInt(); err != nil {
				return s, err
			}
			if c.Pending, err = r.ReadInt(); err != nil {
				return s, err
			}
			if c.LastQueryTick, err = r.ReadInt(); err != nil {
				return s, err
			}
		}
	}
	return s, nil
}
