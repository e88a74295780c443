package strand

import (
	"context"
	"io"
	"math"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// reportColumns is the fixed header of the report table, in output order.
var reportColumns = []string{
	"File",
	"Strandedness",
	"Fwd",
	"Rev",
	"Total",
	"Fwd_Ratio",
	"Rev_Ratio",
	"F2R_Ratio",
	"Log2_F2R",
	"Rel_Diff",
	"Chi2",
	"P_value",
	"Cohens_h",
	"Cramers_V",
	"Bayes_Factor",
	"Epsilon",
	"Hellinger",
	"Entropy",
}

// writeFloat renders one float column, substituting the documented "Inf"
// sentinel for unbounded ratios.
func writeFloat(tw *tsv.Writer, v float64, format byte, prec int) {
	if math.IsInf(v, 1) {
		tw.WriteString("Inf")
		return
	}
	tw.WriteFloat64(v, format, prec)
}

// WriteReports writes the header row followed by one tab-separated row per
// report.  Ratios and effect sizes use fixed-point notation; P_value and
// Bayes_Factor use scientific notation since they span many decades.
func WriteReports(w io.Writer, reports []Report) error {
	tw := tsv.NewWriter(w)
	tw.WriteString(strings.Join(reportColumns, "\t"))
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, r := range reports {
		tw.WriteString(r.File)
		tw.WriteString(string(r.Strandedness))
		tw.WriteInt64(r.Fwd)
		tw.WriteInt64(r.Rev)
		tw.WriteInt64(r.Total)
		writeFloat(tw, r.FwdRatio, 'f', 6)
		writeFloat(tw, r.RevRatio, 'f', 6)
		writeFloat(tw, r.F2RRatio, 'f', 6)
		writeFloat(tw, r.Log2F2R, 'f', 6)
		writeFloat(tw, r.RelDiff, 'f', 6)
		writeFloat(tw, r.Chi2, 'f', 6)
		writeFloat(tw, r.PValue, 'e', 6)
		writeFloat(tw, r.CohensH, 'f', 6)
		writeFloat(tw, r.CramersV, 'f', 6)
		writeFloat(tw, r.BayesFactor, 'e', 6)
		writeFloat(tw, r.Epsilon, 'f', 6)
		writeFloat(tw, r.Hellinger, 'f', 6)
		writeFloat(tw, r.Entropy, 'f', 6)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteReportsFile writes the report table to path, gzip-compressing when the
// path ends in ".gz".
func WriteReportsFile(ctx context.Context, path string, reports []Report) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := out.Writer(ctx)
	if strings.HasSuffix(path, ".gz") {
		gzw := gzip.NewWriter(w)
		if err = WriteReports(gzw, reports); err != nil {
			return err
		}
		return gzw.Close()
	}
	return WriteReports(w, reports)
}
