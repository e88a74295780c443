// Package strand determines whether an RNA-seq library preserves
// strand-of-origin information by classifying the forward/reverse split of
// primary, quality-passing alignments.
//
// The package is split into two stages.  A Counter consumes alignment FLAG +
// MAPQ pairs one record at a time and produces cumulative count Snapshots,
// optionally at a fixed block cadence so callers can stop early once a block
// already carries enough statistical power.  Analyze then turns one Snapshot
// into a Report carrying the strandedness call and its supporting statistics.
package strand

import (
	"strconv"

	"github.com/grailbio/hts/sam"
)

const (
	// DefaultMapq is the default mapping-quality cutoff; records with MAPQ at
	// or below it are counted as low-quality and excluded from strand counts.
	DefaultMapq = 20
	// DefaultBlockSize is the conventional snapshot cadence for incremental
	// counting.
	DefaultBlockSize = 1000 * 1000
)

// Opts configures record classification and snapshot cadence.
type Opts struct {
	// Mapq is the low-quality cutoff: records with MAPQ <= Mapq are counted
	// in LowQual rather than Fwd/Rev.
	Mapq int
	// BlockSize > 0 emits a cumulative Snapshot every BlockSize records.
	// 0 means a single Snapshot at end of stream.
	BlockSize int64
	// MaxBlocks bounds the number of snapshots in incremental mode; counting
	// stops once the budget is spent.  0 means no bound.
	MaxBlocks int
}

// DefaultOpts mirrors the defaults of the strand-check command.
var DefaultOpts = Opts{
	Mapq:      DefaultMapq,
	BlockSize: 0,
	MaxBlocks: 0,
}

// Snapshot is one cumulative set of classification counts, taken from the
// start of the record stream.  Every record is assigned to exactly one of the
// six buckets, so Fwd+Rev+Unmapped+Secondary+Supplementary+LowQual == Records
// for Counter-produced snapshots.
type Snapshot struct {
	Records       int64 // records seen so far
	Fwd           int64 // primary, quality-passing, forward strand
	Rev           int64 // primary, quality-passing, reverse strand
	Unmapped      int64
	Secondary     int64
	Supplementary int64
	LowQual       int64 // mapped primaries at or below the MAPQ cutoff

	// Label identifies the block boundary this snapshot was taken at
	// (e.g. "2M" after two million records).  Empty in single-shot mode.
	Label string
}

// Counter accumulates classification counts over one sequential pass of an
// alignment-record stream.  It never rescans: incremental snapshots are
// copies of the running tally taken at block boundaries.
type Counter struct {
	opts  Opts
	cur   Snapshot
	snaps []Snapshot
	done  bool
}

// NewCounter returns a Counter for the given options.  opts may be nil, in
// which case DefaultOpts is used.
func NewCounter(opts *Opts) *Counter {
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Counter{opts: *opts}
}

// Push classifies one record by its FLAG bits and mapping quality.  The first
// matching bucket wins: unmapped, then secondary, then supplementary, then
// low-quality, then reverse/forward strand.  It returns false once the block
// budget is exhausted and further records would be ignored; callers should
// stop reading at that point.
func (c *Counter) Push(flags sam.Flags, mapQ byte) bool {
	if c.done {
		return false
	}
	c.cur.Records++
	switch {
	case flags&sam.Unmapped != 0:
		c.cur.Unmapped++
	case flags&sam.Secondary != 0:
		c.cur.Secondary++
	case flags&sam.Supplementary != 0:
		c.cur.Supplementary++
	case int(mapQ) <= c.opts.Mapq:
		c.cur.LowQual++
	case flags&sam.Reverse != 0:
		c.cur.Rev++
	default:
		c.cur.Fwd++
	}
	if c.opts.BlockSize > 0 && c.cur.Records%c.opts.BlockSize == 0 {
		c.emit()
		if c.opts.MaxBlocks > 0 && len(c.snaps) >= c.opts.MaxBlocks {
			c.done = true
		}
	}
	return !c.done
}

func (c *Counter) emit() {
	s := c.cur
	s.Label = blockLabel(s.Records)
	c.snaps = append(c.snaps, s)
}

// Finish returns the ordered snapshot sequence.  In single-shot mode this is
// one snapshot of the whole stream.  In incremental mode a trailing partial
// block yields one final snapshot, unless the block budget was already spent
// or the stream ended exactly on a boundary.
func (c *Counter) Finish() []Snapshot {
	if c.opts.BlockSize == 0 {
		return []Snapshot{c.cur}
	}
	last := int64(0)
	if len(c.snaps) > 0 {
		last = c.snaps[len(c.snaps)-1].Records
	}
	if !c.done && c.cur.Records > last {
		c.emit()
	}
	return c.snaps
}

// blockLabel renders a record count the way the report labels block
// boundaries: counts on a tenth-of-a-million boundary become "1M", "3.5M",
// etc., anything else is the plain count.
func blockLabel(n int64) string {
	const m = 1000 * 1000
	if n >= m && n%m == 0 {
		return strconv.FormatInt(n/m, 10) + "M"
	}
	if n >= m && n%(m/10) == 0 {
		return strconv.FormatInt(n/m, 10) + "." + strconv.FormatInt((n%m)/(m/10), 10) + "M"
	}
	return strconv.FormatInt(n, 10)
}
