package store

import "github.com/coralstore/diskctl/cmn/cos"

// Slice is a contiguous range of a disk's cells, [Start, End] inclusive,
// 1-indexed (spec §3 Slice row). The tail slice of a disk may be
// shorter than the others when V does not divide evenly.
type Slice struct {
	Start, End int

	EmptyCount int
	TagBitmap  cos.TagSet
	TagCount   []int // TagCount[tag] = cells in this slice carrying tag
	Pending    int   // sum of per-cell Pending over this slice

	// No dominant tag is cached: TagIsDominant recomputes it from
	// TagCount (the source of truth) on every call.
}

// Len returns the number of cells the slice spans.
func (s *Slice) Len() int { return s.End - s.Start + 1 }

// Empty reports whether the slice holds no object at all.
func (s *Slice) Empty() bool { return s.EmptyCount == s.Len() }

// HasTag reports whether the slice currently stores any object with
// the given tag.
func (s *Slice) HasTag(tag int) bool { return s.TagBitmap.Has(tag) }

// TagIsDominant reports whether tag's count in this slice is >= every
// other tag present (spec §4.1 step 3: "this tag's count >= every
// other tag's count in the slice").
func (s *Slice) TagIsDominant(tag int) bool {
	c := s.TagCount[tag]
	for t, n := range s.TagCount {
		if t == tag || n == 0 {
			continue
		}
		if n > c {
			return false
		}
	}
	return true
}

// DistinctTags returns the number of distinct tags currently stored.
func (s *Slice) DistinctTags() int { return s.TagBitmap.Count() }
