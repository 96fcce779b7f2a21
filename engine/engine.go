// Package engine wires every subsystem together and drives the fixed
// per-tick ordering of spec §5: align, deletes, writes, reads, head
// planning+execution, emit completions, timeout oracle + abandonments,
// per-disk time-bucket advance, and periodic GC.
package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/cmn"
	"github.com/coralstore/diskctl/cmn/logx"
	"github.com/coralstore/diskctl/gain"
	"github.com/coralstore/diskctl/gc"
	"github.com/coralstore/diskctl/group"
	"github.com/coralstore/diskctl/head"
	"github.com/coralstore/diskctl/lifecycle"
	"github.com/coralstore/diskctl/placement"
	"github.com/coralstore/diskctl/proto"
	"github.com/coralstore/diskctl/stats"
	"github.com/coralstore/diskctl/store"
)

// Engine owns every subsystem's live state for one run.
type Engine struct {
	cfg   *cmn.Config
	disks []*store.Disk // 1-indexed

	table   *catalog.Table
	gainM   *gain.Model
	plan    *group.Plan
	place   *placement.Engine
	reg     *lifecycle.Registrar
	exec    *lifecycle.Executor
	oracle  *lifecycle.Oracle
	tagStat *lifecycle.TagStats

	stats *stats.Collector

	r *proto.Reader
	w *proto.Writer

	tick int
}

// New builds an Engine from the already-read init configuration. It
// runs the (one-shot, init-time) group-plan search before returning.
func New(cfg *cmn.Config, r *proto.Reader, w *proto.Writer) *Engine {
	disks := make([]*store.Disk, cfg.N+1)
	for i := 1; i <= cfg.N; i++ {
		disks[i] = store.NewDisk(i, cfg.V, cfg.SliceCount, cfg.M)
	}

	seed := group.Seed(group.DefaultSeedString)
	plan := group.Build(cfg.N, cfg.SliceCount, seed)

	table := catalog.NewTable()
	gm := gain.NewModel(cfg.N, cfg.SliceCount, cmn.Horizon)
	tagStat := lifecycle.NewTagStats(cfg.M)

	e := &Engine{
		cfg:     cfg,
		disks:   disks,
		table:   table,
		gainM:   gm,
		plan:    plan,
		place:   placement.NewEngine(disks, plan, table),
		tagStat: tagStat,
		stats:   stats.NewCollector(),
		r:       r,
		w:       w,
	}
	e.reg = &lifecycle.Registrar{Disks: disks, Table: table, Gain: gm, Stats: tagStat, RNG: rand.New(rand.NewSource(seed ^ 0x5bd1e995))}
	e.exec = &lifecycle.Executor{Disks: disks, Table: table, Gain: gm, Stats: tagStat}
	e.oracle = &lifecycle.Oracle{Exec: e.exec, Stats: tagStat, GEff: cfg.EffectiveBudget}
	return e
}

// Disks returns the engine's live, 1-indexed disk slice, for the
// optional debug server (package debugsrv) to read. Never mutated by
// anything outside the engine's own tick handlers.
func (e *Engine) Disks() []*store.Disk { return e.disks }

// Table returns the engine's live object table, for the optional
// debug server's /inspect endpoint.
func (e *Engine) Table() *catalog.Table { return e.table }

// Tick returns the tick number currently being processed (or most
// recently completed), for snapshot labeling.
func (e *Engine) Tick() int { return e.tick }

// Run drives the protocol for T + Horizon ticks (spec §6: "repeats
// for T+105 ticks" so in-flight reads can still complete or abandon).
func (e *Engine) Run() {
	total := e.cfg.T + cmn.Horizon
	for t := 1; t <= total; t++ {
		e.runTick(t)
	}
	logx.Infof("engine: completed %d ticks", total)
}

func (e *Engine) runTick(t int) {
	e.tick = t

	e.r.ExpectToken("TIMESTAMP")
	got := e.r.Int()
	if got != t {
		panic(cmn.NewErrProtocolViolation("timestamp mismatch: expected %d, got %d", t, got))
	}
	e.w.Line(fmt.Sprintf("TIMESTAMP %d", t))

	e.runDeletes()
	e.runWrites(t)
	preRejected := e.runReads(t)
	completed := e.runHeads(t)
	e.w.WriteIDs(completed)

	abandoned := e.oracle.Run(t)
	busy := append(preRejected, abandoned...)
	sort.Ints(busy)
	e.w.WriteIDs(busy)

	e.gainM.Advance(t + 1)

	if t%cmn.GCPeriod == 0 {
		e.runGC()
	}

	e.w.Flush()
	e.stats.TickProcessed()
}

func (e *Engine) runDeletes() {
	ids := e.r.ReadIDs()
	var cancelled []int
	for _, id := range ids {
		cancelled = append(cancelled, e.exec.DeleteObject(id)...)
	}
	sort.Ints(cancelled)
	e.w.WriteIDs(cancelled)
}

func (e *Engine) runWrites(t int) {
	reqs := e.r.ReadWrites()
	timeBlock := cmn.TimeBlock(t)
	freqAt := func(tag int) int {
		if tag < 0 || tag >= len(e.cfg.FreqRead) {
			return 0
		}
		if timeBlock >= len(e.cfg.FreqRead[tag]) {
			return 0
		}
		return e.cfg.FreqRead[tag][timeBlock]
	}
	results, err := e.place.PlaceBatch(reqs, freqAt)
	if err != nil {
		panic(err)
	}
	for _, res := range results {
		e.w.WritePlacement(res)
	}
}

func (e *Engine) runReads(t int) []int {
	events := e.r.ReadReads()
	top := lifecycle.ComputeTopGain(e.disks, e.gainM, 2)
	var rejected []int
	for _, ev := range events {
		if !e.reg.Register(ev.ObjectID, ev.ReqID, t, top) {
			rejected = append(rejected, ev.ReqID)
		}
	}
	return rejected
}

func (e *Engine) runHeads(t int) []int {
	plans := head.PlanAll(e.disks, e.cfg, e.gainM, t)
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].DiskID != plans[j].DiskID {
			return plans[i].DiskID < plans[j].DiskID
		}
		return plans[i].Head < plans[j].Head
	})

	var completed []int
	for _, p := range plans {
		for _, a := range p.Actions {
			if a.Kind == head.Read {
				completed = append(completed, e.exec.ExecuteRead(p.DiskID, a.Pos, t)...)
			}
		}
		e.w.Line(proto.EncodeActions(p.Actions))
		e.stats.HeadAction(len(p.Actions))
	}
	sort.Ints(completed)
	return completed
}

func (e *Engine) runGC() {
	e.r.ExpectToken("GARBAGE")
	e.r.ExpectToken("COLLECTION")
	e.r.Token() // acknowledgement token, content not otherwise specified

	swaps := gc.Run(e.disks, e.table, e.gainM, e.cfg.K)
	e.w.Line("GARBAGE COLLECTION")
	total := 0
	for di := 1; di <= e.cfg.N; di++ {
		e.w.Int(len(swaps[di]))
		for _, s := range swaps[di] {
			e.w.Line(fmt.Sprintf("%d %d", s.From, s.To))
		}
		total += len(swaps[di])
	}
	e.stats.GCPass(total)
}
