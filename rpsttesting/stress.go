package rpsttesting

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-rpst/rpst"
)

var (
	ErrOracleMismatch = errors.New("rpsttesting: tree disagrees with the oracle")
	ErrHeightShrunk   = errors.New("rpsttesting: tree height decreased")
	ErrHeightCoverage = errors.New("rpsttesting: tree height does not cover an inserted x")
)

type StressConfig struct {
	// Ops is the number of operations to generate.
	Ops int
	// Seed seeds the operation generator. Stress sets it from its seed
	// argument; WithSeed overrides that.
	Seed  int64
	RunID string

	Keys KeyGenerator
	// MaxY bounds the generated priorities, [0, MaxY].
	MaxY uint64

	// Relative weights of the generated operations. A duplicate insert
	// re-inserts the pair of a linked node using a fresh node.
	InsertWeight    int
	RemoveWeight    int
	QueryWeight     int
	DuplicateWeight int

	// VerifyEvery runs rpst.Verify every n operations; 0 disables it.
	VerifyEvery int
	// TraceDir, when set, receives the trace of a failed run.
	TraceDir string
}

type StressOption func(*StressConfig)

func DefaultStressConfig() StressConfig {
	return StressConfig{
		Ops:             10_000,
		Keys:            ScaledKeys(),
		MaxY:            1 << 16,
		InsertWeight:    5,
		RemoveWeight:    3,
		QueryWeight:     2,
		DuplicateWeight: 1,
		VerifyEvery:     100,
	}
}

func WithOps(n int) StressOption {
	return func(c *StressConfig) { c.Ops = n }
}

func WithSeed(seed int64) StressOption {
	return func(c *StressConfig) { c.Seed = seed }
}

func WithRunID(id string) StressOption {
	return func(c *StressConfig) { c.RunID = id }
}

func WithKeys(keys KeyGenerator) StressOption {
	return func(c *StressConfig) { c.Keys = keys }
}

func WithMaxY(maxY uint64) StressOption {
	return func(c *StressConfig) { c.MaxY = maxY }
}

func WithWeights(insert, remove, query, duplicate int) StressOption {
	return func(c *StressConfig) {
		c.InsertWeight = insert
		c.RemoveWeight = remove
		c.QueryWeight = query
		c.DuplicateWeight = duplicate
	}
}

func WithVerifyEvery(n int) StressOption {
	return func(c *StressConfig) { c.VerifyEvery = n }
}

func WithTraceDir(dir string) StressOption {
	return func(c *StressConfig) { c.TraceDir = dir }
}

type StressResult struct {
	Inserted      int
	Duplicates    int
	Removed       int
	Queries       int
	QueryMatches  int
	Verifications int
	MaxLive       int
	FinalLive     int
	MaxHeight     uint8
	Trace         *Trace
	TracePath     string
}

// runner applies operations to a tree and its oracle, checking one against
// the other after each.
type runner struct {
	log         logger.Logger
	tree        *rpst.Tree
	oracle      *Oracle
	verifyEvery int
	applied     int
	lastHeight  uint8
	res         StressResult
}

func newRunner(log logger.Logger, verifyEvery int, tr *Trace) *runner {
	return &runner{
		log:         log,
		tree:        rpst.NewTree(),
		oracle:      NewOracle(),
		verifyEvery: verifyEvery,
		res:         StressResult{Trace: tr},
	}
}

func (r *runner) apply(op Op) error {
	r.res.Trace.record(op)
	r.applied++

	var err error
	switch op.Kind {
	case OpInsert:
		err = r.insert(op)
	case OpRemove:
		err = r.remove(op)
	case OpQuery:
		err = r.query(op)
	default:
		err = fmt.Errorf("%w: unknown op %v", ErrTraceDecode, op.Kind)
	}
	if err != nil {
		return fmt.Errorf("op %d (%v): %w", r.applied, op.Kind, err)
	}

	h := r.tree.Height()
	if h < r.lastHeight {
		return fmt.Errorf("op %d: %w: %d -> %d", r.applied, ErrHeightShrunk, r.lastHeight, h)
	}
	r.lastHeight = h
	if h > r.res.MaxHeight {
		r.res.MaxHeight = h
	}
	if r.oracle.Len() > 0 && r.tree.MaxX() < r.oracle.MaxInsertedX() {
		return fmt.Errorf("op %d: %w: height %d x %d", r.applied, ErrHeightCoverage, h, r.oracle.MaxInsertedX())
	}
	if live := r.oracle.Len(); live > r.res.MaxLive {
		r.res.MaxLive = live
	}

	if r.verifyEvery > 0 && r.applied%r.verifyEvery == 0 {
		r.res.Verifications++
		if err := rpst.Verify(r.tree); err != nil {
			return fmt.Errorf("op %d: %w", r.applied, err)
		}
	}
	return nil
}

func (r *runner) insert(op Op) error {
	want := r.oracle.Find(op.X, op.Y)
	n := rpst.NewNode(op.X, op.Y)
	got := r.tree.Insert(n)
	if got != want {
		return fmt.Errorf("%w: insert (%d, %d) returned %p, oracle holds %p",
			ErrOracleMismatch, op.X, op.Y, got, want)
	}
	if got != nil {
		r.res.Duplicates++
		return nil
	}
	r.oracle.Add(n)
	r.res.Inserted++
	return nil
}

func (r *runner) remove(op Op) error {
	n := r.oracle.Find(op.X, op.Y)
	if n == nil {
		return fmt.Errorf("%w: remove (%d, %d) of an unknown pair", ErrOracleMismatch, op.X, op.Y)
	}
	r.tree.Remove(n)
	r.oracle.Delete(n)
	r.res.Removed++
	if r.oracle.Len() == 0 && !r.tree.Empty() {
		return fmt.Errorf("%w: tree not empty after removing the last node", ErrOracleMismatch)
	}
	return nil
}

func (r *runner) query(op Op) error {
	want := r.oracle.Query(op.MaxY, op.MinX, op.MaxX)
	got := r.tree.Collect(op.MaxY, op.MinX, op.MaxX)
	r.res.Queries++
	r.res.QueryMatches += len(got)

	if len(got) != len(want) {
		return fmt.Errorf("%w: query y<=%d x in [%d, %d]: %d matches, oracle %d",
			ErrOracleMismatch, op.MaxY, op.MinX, op.MaxX, len(got), len(want))
	}
	wantSet := make(map[*rpst.Node]bool, len(want))
	for _, n := range want {
		wantSet[n] = true
	}
	for _, n := range got {
		if !wantSet[n] {
			return fmt.Errorf("%w: query y<=%d x in [%d, %d]: unexpected (%d, %d)",
				ErrOracleMismatch, op.MaxY, op.MinX, op.MaxX, n.X, n.Y)
		}
		delete(wantSet, n)
	}
	return nil
}

// finish runs the final full checks and fills in the result.
func (r *runner) finish() error {
	r.res.FinalLive = r.oracle.Len()
	r.res.Verifications++
	if err := rpst.Verify(r.tree); err != nil {
		return err
	}
	if got := r.tree.Len(); got != r.oracle.Len() {
		return fmt.Errorf("%w: tree holds %d nodes, oracle %d", ErrOracleMismatch, got, r.oracle.Len())
	}
	r.log.Debugf("verified %d live nodes at height %d", r.res.FinalLive, r.tree.Height())
	return r.query(Op{Kind: OpQuery, MaxY: ^uint64(0), MinX: 0, MaxX: ^uint64(0)})
}

// generator draws random operations against the runner's current state.
type generator struct {
	cfg   StressConfig
	rng   *rand.Rand
	total int
}

func (g *generator) next(o *Oracle) Op {
	pick := g.rng.Intn(g.total)
	switch {
	case pick < g.cfg.InsertWeight || o.Len() == 0:
		return Op{Kind: OpInsert, X: g.cfg.Keys(g.rng), Y: g.y()}
	case pick < g.cfg.InsertWeight+g.cfg.RemoveWeight:
		n := o.Pick(g.rng)
		return Op{Kind: OpRemove, X: n.X, Y: n.Y}
	case pick < g.cfg.InsertWeight+g.cfg.RemoveWeight+g.cfg.QueryWeight:
		return g.queryOp(o)
	default:
		n := o.Pick(g.rng)
		return Op{Kind: OpInsert, X: n.X, Y: n.Y}
	}
}

func (g *generator) y() uint64 {
	if g.cfg.MaxY == ^uint64(0) {
		return g.rng.Uint64()
	}
	return g.rng.Uint64() % (g.cfg.MaxY + 1)
}

// queryOp mixes windows anchored on linked keys with fully random ones, so
// single point and edge windows are common.
func (g *generator) queryOp(o *Oracle) Op {
	maxY := g.y()
	var a, b uint64
	switch g.rng.Intn(3) {
	case 0:
		n := o.Pick(g.rng)
		a, b = n.X, n.X
	case 1:
		a, b = o.Pick(g.rng).X, o.Pick(g.rng).X
	default:
		a, b = g.cfg.Keys(g.rng), g.cfg.Keys(g.rng)
	}
	if a > b {
		a, b = b, a
	}
	return Op{Kind: OpQuery, MaxY: maxY, MinX: a, MaxX: b}
}

// Stress drives a random sequence of inserts, removes and queries against a
// fresh tree and an oracle, failing on the first disagreement or invariant
// violation. The returned result always carries the trace of what was run.
func Stress(log logger.Logger, seed int64, opts ...StressOption) (StressResult, error) {
	cfg := DefaultStressConfig()
	cfg.Seed = seed
	for _, o := range opts {
		o(&cfg)
	}
	total := cfg.InsertWeight + cfg.RemoveWeight + cfg.QueryWeight + cfg.DuplicateWeight
	if total <= 0 || cfg.InsertWeight <= 0 {
		return StressResult{}, fmt.Errorf("rpsttesting: insert weight and total weight must be positive")
	}

	tr := &Trace{Version: TraceVersion, RunID: cfg.RunID, Seed: cfg.Seed}
	r := newRunner(log, cfg.VerifyEvery, tr)
	g := &generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed)), total: total}

	log.Debugf("stress %s: seed %d ops %d", cfg.RunID, cfg.Seed, cfg.Ops)
	var err error
	for i := 0; i < cfg.Ops && err == nil; i++ {
		err = r.apply(g.next(r.oracle))
	}
	if err == nil {
		err = r.finish()
	}
	if err != nil {
		log.Infof("stress %s failed: %v", cfg.RunID, err)
		if cfg.TraceDir != "" {
			r.res.TracePath = saveFailedTrace(log, cfg.TraceDir, tr)
		}
		return r.res, err
	}

	log.Infof("stress %s: inserted %d removed %d duplicates %d queries %d live %d height %d",
		cfg.RunID, r.res.Inserted, r.res.Removed, r.res.Duplicates, r.res.Queries,
		r.res.FinalLive, r.res.MaxHeight)
	return r.res, nil
}

// Replay re-runs a recorded trace against a fresh tree.
func Replay(log logger.Logger, tr Trace, verifyEvery int) (StressResult, error) {
	replayed := &Trace{Version: tr.Version, RunID: tr.RunID, Seed: tr.Seed}
	r := newRunner(log, verifyEvery, replayed)
	for _, op := range tr.Ops {
		if err := r.apply(op); err != nil {
			return r.res, err
		}
	}
	if err := r.finish(); err != nil {
		return r.res, err
	}
	log.Debugf("replay %s: %d ops", tr.RunID, len(tr.Ops))
	return r.res, nil
}

func saveFailedTrace(log logger.Logger, dir string, tr *Trace) string {
	codec, err := NewTraceCodec()
	if err != nil {
		log.Infof("trace codec: %v", err)
		return ""
	}
	path, err := SaveTrace(codec, dir, tr)
	if err != nil {
		log.Infof("save trace: %v", err)
		return ""
	}
	log.Infof("trace saved to %s", path)
	return path
}
