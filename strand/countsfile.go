package strand

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// ReadCountsFile parses a whitespace-separated counts table into snapshots,
// one per line.  This is the handoff format of the upstream counting stage:
//
//	records fwd rev unmapped secondary supplementary label
//
// The low-quality count is not carried explicitly; it is the remainder after
// the six explicit buckets, so a line whose buckets exceed its record total
// is rejected.  Blank lines are skipped.
func ReadCountsFile(ctx context.Context, path string) (snaps []Snapshot, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)

	scanner := bufio.NewScanner(in.Reader(ctx))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s, perr := parseCountsLine(line)
		if perr != nil {
			return nil, errors.E(perr, fmt.Sprintf("%s:%d", path, lineNum))
		}
		snaps = append(snaps, s)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.E(err, path)
	}
	return snaps, nil
}

func parseCountsLine(line string) (Snapshot, error) {
	fields := strings.Fields(line)
	if len(fields) < 7 {
		return Snapshot{}, fmt.Errorf("need at least 7 columns, got %d", len(fields))
	}
	var n [6]int64
	for i := range n {
		v, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return Snapshot{}, fmt.Errorf("column %d: %v", i+1, err)
		}
		if v < 0 {
			return Snapshot{}, fmt.Errorf("column %d: negative count %d", i+1, v)
		}
		n[i] = v
	}
	s := Snapshot{
		Records:       n[0],
		Fwd:           n[1],
		Rev:           n[2],
		Unmapped:      n[3],
		Secondary:     n[4],
		Supplementary: n[5],
		Label:         fields[6],
	}
	s.LowQual = s.Records - s.Fwd - s.Rev - s.Unmapped - s.Secondary - s.Supplementary
	if s.LowQual < 0 {
		return Snapshot{}, fmt.Errorf("bucket counts sum past the record total %d", s.Records)
	}
	return s, nil
}
