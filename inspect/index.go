// Package inspect rebuilds a read-only, in-memory query index over
// the engine's object table for ad-hoc debugging queries (by tag). It
// is never consulted by scheduling or placement — those
// read package catalog/store directly — and it is always rebuilt from
// scratch, never incrementally maintained, so it can never drift out
// of sync with live state or sit on any hot path.
package inspect

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/buntdb"

	"github.com/coralstore/diskctl/catalog"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// objectView is the JSON shape one indexed object is stored/queried
// as; buntdb's by_tag index reads the "tag" field back out of it.
type objectView struct {
	Tag   int   `json:"tag"`
	Size  int   `json:"size"`
	Disks []int `json:"disks"`
}

// Index is a disposable snapshot-query view, backed by an in-memory
// buntdb database.
type Index struct {
	db *buntdb.DB
}

// Rebuild opens a fresh in-memory index and populates it from every
// live object in table. Each object is stored as the JSON objectView
// {"tag":..,"size":..,"disks":[d1,d2,d3]} keyed by "obj:<id>", with a
// secondary index over the tag field for ByTag queries.
func Rebuild(table *catalog.Table) (*Index, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, err
	}
	if err := db.CreateIndex("by_tag", "obj:*", buntdb.IndexJSON("tag")); err != nil {
		db.Close()
		return nil, err
	}

	err = db.Update(func(tx *buntdb.Tx) error {
		var putErr error
		table.ForEach(func(o *catalog.Object) {
			if putErr != nil {
				return
			}
			key := "obj:" + strconv.Itoa(o.ID)
			val := objectJSON(o)
			_, _, putErr = tx.Set(key, val, nil)
		})
		return putErr
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

// Close releases the underlying in-memory database.
func (idx *Index) Close() error { return idx.db.Close() }

// ByTag returns every object id currently indexed under tag.
func (idx *Index) ByTag(tag int) ([]int, error) {
	var ids []int
	want := `{"tag":` + strconv.Itoa(tag) + `}`
	err := idx.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendEqual("by_tag", want, func(key, value string) bool {
			id, convErr := strconv.Atoi(strings.TrimPrefix(key, "obj:"))
			if convErr == nil {
				ids = append(ids, id)
			}
			return true
		})
	})
	return ids, err
}

func objectJSON(o *catalog.Object) string {
	v := objectView{Tag: o.Tag, Size: o.Size, Disks: make([]int, 0, 3)}
	for _, rep := range o.Replicas {
		v.Disks = append(v.Disks, rep.Disk)
	}
	b, err := jsonAPI.Marshal(v)
	if err != nil {
		// unreachable for this fixed, non-cyclic shape; fall back to an
		// empty tag-only record rather than panic inside a debug index.
		return `{"tag":0,"size":0,"disks":[]}`
	}
	return string(b)
}
