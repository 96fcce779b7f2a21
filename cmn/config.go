// Package cmn holds types and helpers shared across the engine: runtime
// configuration and the error taxonomy (debug assertions and logging
// live in its debug and logx subpackages). It plays the role aistore's own cmn package plays for its
// cluster: a small, dependency-light base every other package imports.
/*
 * Copyright (c) 2024, coralstore contributors.
 */
package cmn

// Config is populated once from the §6 init handshake and never mutated
// afterwards. Every subsystem receives it by pointer, the way aistore
// threads *cmn.Config through Start/Run.
type Config struct {
	// T is the number of timesteps carrying delete/write/read events;
	// the driver continues for T+Horizon ticks total so in-flight
	// reads can still complete or time out.
	T int
	// M is the number of object tags, 1-indexed.
	M int
	// N is the number of disks, 1-indexed.
	N int
	// V is the per-disk cell capacity.
	V int
	// G is the base per-head per-tick token budget.
	G int
	// K is the maximum number of GC swaps per disk per GC pass.
	K int

	// SliceCount is the number of slices each disk is partitioned
	// into. Not part of the wire handshake; derived at startup from a
	// fixed divisor applied to V (see DeriveSliceCount).
	SliceCount int

	// FreqDel/FreqWrite/FreqRead are the M x F per-tag per-time-block
	// histograms from init, 1-indexed on both axes.
	FreqDel, FreqWrite, FreqRead [][]int

	// TimeBlockBonus is g[time_block], the optional per-time-block
	// addition to the per-head token budget (§4.3). The wire protocol
	// never transmits it (§9 Open Questions); it defaults to all
	// zero and exists so tests and tuning can override it.
	TimeBlockBonus []int
}

// FreqTimeBlockSpan ticks per frequency-table column: the driver
// buckets the M x F histograms by 1800-tick windows.
const FreqTimeBlockSpan = 1800

// Horizon is the read-request target lifetime L and the gain model's
// bucket-pruning age cutoff (spec §4.4, §4.5): both reuse the same
// constant because the gain model's purpose is estimating whether a
// request will clear its deadline.
const Horizon = 105

// GCPeriod is the fixed tick interval between GC passes (spec §4.6).
const GCPeriod = 1800

// TimeBlock returns the 0-indexed frequency-table column tick t falls
// into; t is 1-based per spec §6 ("All indexing is 1-based").
func TimeBlock(t int) int {
	if t <= 0 {
		return 0
	}
	return (t - 1) / FreqTimeBlockSpan
}

// FreqLen is F = ceil(T/1800), the number of columns in each frequency
// table (spec §6 init).
func FreqLen(t int) int {
	return (t + FreqTimeBlockSpan - 1) / FreqTimeBlockSpan
}

// DeriveSliceCount picks the slice partitioning of a V-cell disk. The
// reference implementation this spec was distilled from parametrizes
// slice size directly (original_source/src/structures.hpp's two-arg
// Disk constructor); spec.md leaves the slice count to the
// implementation (§3's "equal-sized slices, tail slice may be
// shorter"). We target roughly 16 cells per slice, i.e. V/16 slices,
// floored so a tiny V still gets at least one slice (V=5000 gives 312
// slices, V=16000 gives 1000).
func DeriveSliceCount(v int) int {
	if v <= 0 {
		return 1
	}
	const target = 16
	n := v / target
	if n < 1 {
		n = 1
	}
	return n
}

// Bonus returns the configured per-head budget bonus for the
// given 0-indexed time block, or 0 if none was configured (§9 Open
// Questions: default to zero absent explicit input).
func (c *Config) Bonus(timeBlock int) int {
	if timeBlock < 0 || timeBlock >= len(c.TimeBlockBonus) {
		return 0
	}
	return c.TimeBlockBonus[timeBlock]
}

// EffectiveBudget is G_effective = G + g[time_block] (spec §4.3).
func (c *Config) EffectiveBudget(t int) int {
	return c.G + c.Bonus(TimeBlock(t))
}
