package strand

import (
	"context"
	"runtime"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/pkg/errors"
)

// BatchOpts configures an AnalyzeFiles run.
type BatchOpts struct {
	// Opts is passed to each file's Counter.
	Opts
	// CountsInput treats inputs as precomputed counts tables instead of
	// alignment files.
	CountsInput bool
	// Parallelism is the worker count for the file fan-out; 0 means
	// runtime.NumCPU().
	Parallelism int
}

// AnalyzeFiles runs the extract+classify pipeline over every input file and
// returns the concatenated reports in input order.  Files are fully
// independent (no shared mutable state), so they are fanned out over a worker
// pool; within a file, records are processed strictly sequentially.  Report
// rows are named by file path, suffixed with the block label in incremental
// mode.
func AnalyzeFiles(ctx context.Context, paths []string, opts *BatchOpts) ([]Report, error) {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(paths) {
		parallelism = len(paths)
	}
	perFile := make([][]Report, len(paths))
	nFile := len(paths)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * nFile) / parallelism
		endIdx := ((jobIdx + 1) * nFile) / parallelism
		for i := startIdx; i < endIdx; i++ {
			reports, err := analyzeFile(ctx, paths[i], opts)
			if err != nil {
				return err
			}
			perFile[i] = reports
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var all []Report
	for _, reports := range perFile {
		all = append(all, reports...)
	}
	return all, nil
}

func analyzeFile(ctx context.Context, path string, opts *BatchOpts) ([]Report, error) {
	var snaps []Snapshot
	var err error
	if opts.CountsInput {
		snaps, err = ReadCountsFile(ctx, path)
	} else {
		snaps, err = Scan(ctx, path, &opts.Opts)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	reports := make([]Report, 0, len(snaps))
	for _, s := range snaps {
		rep, err := Analyze(s)
		if err != nil {
			return nil, errors.Wrapf(err, "analyzing %s", path)
		}
		if opts.CountsInput && s.Label != "" {
			// Counts tables carry their own row names.
			rep.File = s.Label
		} else if s.Label != "" {
			rep.File = path + ":" + s.Label
		} else {
			rep.File = path
		}
		reports = append(reports, rep)
		log.Debug.Printf("%s: %d informative reads, %s", rep.File, rep.Total, rep.Strandedness)
	}
	return reports, nil
}
