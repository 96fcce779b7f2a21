package lifecycle

// TagStats tracks each tag's recent abandonment rate as an
// exponential moving average over terminal outcomes (complete=0,
// abandon=1). Spec §4.5 leaves "recent abandonment rate" undefined in
// detail (§9 Open Questions calls τ itself "tuned empirically"); an
// EMA is the standard low-memory choice for a rate that must decay
// without keeping a sliding window of raw events.
type TagStats struct {
	alpha float64
	rate  []float64 // rate[tag], 1-indexed
}

// NewTagStats allocates per-tag stats for tags 1..m.
func NewTagStats(m int) *TagStats {
	return &TagStats{alpha: 0.05, rate: make([]float64, m+1)}
}

// Observe folds one terminal outcome for tag into its running rate.
func (s *TagStats) Observe(tag int, abandoned bool) {
	if tag < 0 || tag >= len(s.rate) {
		return
	}
	obs := 0.0
	if abandoned {
		obs = 1.0
	}
	s.rate[tag] += s.alpha * (obs - s.rate[tag])
}

// Rate returns tag's current estimated abandonment rate in [0, 1].
func (s *TagStats) Rate(tag int) float64 {
	if tag < 0 || tag >= len(s.rate) {
		return 0
	}
	return s.rate[tag]
}
