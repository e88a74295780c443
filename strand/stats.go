package strand

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
)

// Strandedness is the categorical library-orientation call.
type Strandedness string

const (
	// FRFirststrand: reverse-transcribed strand matches the annotated strand
	// (forward alignments dominate).
	FRFirststrand Strandedness = "fr-firststrand"
	// FRSecondstrand: reverse alignments dominate.
	FRSecondstrand Strandedness = "fr-secondstrand"
	// FRUnstranded: no usable forward/reverse asymmetry.
	FRUnstranded Strandedness = "fr-unstranded"
	// InsufficientData: too few informative reads to make a call.
	InsufficientData Strandedness = "insufficient-data"
)

// minInformativeTotal is the minimum number of primary, quality-passing
// alignments required before a strand call is attempted.
const minInformativeTotal = 3000

// Report carries the strandedness call for one snapshot, together with the
// statistics backing it.  It is a pure function of the snapshot: recompute it
// with Analyze whenever counts change.
//
// Infinity shows up in exactly two places, both rendered as the "Inf"
// sentinel in the TSV output: F2RRatio when Rev is zero, and RelDiff when the
// smaller count is zero.  The decision rule treats both as maximal forward
// (respectively, maximal) skew.  Everything else is finite: BayesFactor
// saturates at MaxFloat64, and a zero informative total short-circuits every
// ratio statistic to its neutral value.
type Report struct {
	File         string
	Strandedness Strandedness
	Fwd          int64
	Rev          int64
	Total        int64 // Fwd + Rev; unmapped/secondary/supplementary/low-quality records are excluded

	FwdRatio    float64
	RevRatio    float64
	F2RRatio    float64 // Fwd/Rev; +Inf when Rev == 0 < Fwd
	Log2F2R     float64 // log2((Fwd+0.5)/(Rev+0.5)), pseudocount keeps it finite
	RelDiff     float64 // |Fwd-Rev| / min(Fwd,Rev); +Inf when min == 0 < Total
	Chi2        float64 // goodness of fit against the 50/50 null, df=1
	PValue      float64 // upper tail of Chi2, df=1
	CohensH     float64 // 2*asin(sqrt(p)) - 2*asin(sqrt(q))
	CramersV    float64 // sqrt(Chi2/Total)
	BayesFactor float64 // binomial likelihood ratio, observed p vs 0.5
	Epsilon     float64 // |p - 0.5|
	Hellinger   float64 // distance of (p,q) from (0.5,0.5)
	Entropy     float64 // Shannon entropy of (p,q) in bits
}

// validate rejects snapshots that cannot have come from a single counting
// pass.  These indicate upstream corruption, not a property of the library,
// so they surface as errors rather than as a report.
func validate(s Snapshot) error {
	for _, c := range []struct {
		name string
		n    int64
	}{
		{"records", s.Records},
		{"forward", s.Fwd},
		{"reverse", s.Rev},
		{"unmapped", s.Unmapped},
		{"secondary", s.Secondary},
		{"supplementary", s.Supplementary},
		{"low-quality", s.LowQual},
	} {
		if c.n < 0 {
			return errors.E(fmt.Sprintf("negative %s count %d", c.name, c.n))
		}
	}
	if s.Fwd+s.Rev > s.Records {
		return errors.E(fmt.Sprintf("forward(%d) + reverse(%d) counts exceed total records (%d)", s.Fwd, s.Rev, s.Records))
	}
	return nil
}

// Analyze computes the full statistics report for one snapshot.  The returned
// report's File field is the snapshot label; callers that track filenames
// overwrite it.  An error means the snapshot itself is malformed; numeric
// edge cases (zero denominators) never error.
func Analyze(s Snapshot) (Report, error) {
	if err := validate(s); err != nil {
		return Report{}, err
	}
	f, r := s.Fwd, s.Rev
	total := f + r
	rep := Report{
		File:    s.Label,
		Fwd:     f,
		Rev:     r,
		Total:   total,
		Log2F2R: math.Log2((float64(f) + 0.5) / (float64(r) + 0.5)),
	}
	if total == 0 {
		// Neutral sentinels: a report indistinguishable from a perfectly
		// balanced library, flagged insufficient-data.
		rep.PValue = 1
		rep.BayesFactor = 1
		rep.Strandedness = InsufficientData
		return rep, nil
	}

	t := float64(total)
	p := float64(f) / t
	q := float64(r) / t
	rep.FwdRatio = p
	rep.RevRatio = q

	if r > 0 {
		rep.F2RRatio = float64(f) / float64(r)
	} else {
		rep.F2RRatio = math.Inf(1)
	}
	if m := min64(f, r); m > 0 {
		rep.RelDiff = math.Abs(float64(f)-float64(r)) / float64(m)
	} else {
		rep.RelDiff = math.Inf(1)
	}

	expected := t / 2
	rep.Chi2 = (float64(f)-expected)*(float64(f)-expected)/expected +
		(float64(r)-expected)*(float64(r)-expected)/expected
	// Exact df=1 upper tail: P(X > chi2) = erfc(sqrt(chi2/2)).
	rep.PValue = math.Erfc(math.Sqrt(rep.Chi2 / 2))

	rep.CohensH = 2*math.Asin(math.Sqrt(p)) - 2*math.Asin(math.Sqrt(q))
	rep.CramersV = math.Sqrt(rep.Chi2 / t)
	rep.BayesFactor = bayesFactor(f, r)
	rep.Epsilon = math.Abs(p - 0.5)

	d := math.Sqrt(p) - math.Sqrt(0.5)
	e := math.Sqrt(q) - math.Sqrt(0.5)
	rep.Hellinger = math.Sqrt(0.5 * (d*d + e*e))
	rep.Entropy = entropyBits(p) + entropyBits(q)

	rep.Strandedness = classify(total, rep.RelDiff, rep.F2RRatio)
	return rep, nil
}

// classify applies the three-tier decision rule.  The tiers are strictly
// sequential: the unstranded check always runs before the orientation check,
// so a low relative difference wins even when F2R is large.
func classify(total int64, relDiff, f2r float64) Strandedness {
	if total <= minInformativeTotal {
		return InsufficientData
	}
	if relDiff <= 1 {
		return FRUnstranded
	}
	if f2r > 1 {
		return FRFirststrand
	}
	return FRSecondstrand
}

// bayesFactor is the likelihood ratio of the binomial evidence at the
// observed proportion against the 50/50 null.  Computed in log space and
// saturated at MaxFloat64 so the report stays finite even for extreme skews.
func bayesFactor(f, r int64) float64 {
	total := f + r
	p := float64(f) / float64(total)
	q := float64(r) / float64(total)
	logLR := -float64(total) * math.Log(0.5)
	if f > 0 {
		logLR += float64(f) * math.Log(p)
	}
	if r > 0 {
		logLR += float64(r) * math.Log(q)
	}
	if logLR >= math.Log(math.MaxFloat64) {
		return math.MaxFloat64
	}
	return math.Exp(logLR)
}

// entropyBits is one term of the Shannon entropy, with 0*log2(0) = 0.
func entropyBits(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return -p * math.Log2(p)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
