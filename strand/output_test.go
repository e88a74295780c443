package strand

import (
	"bytes"
	"context"
	"io/ioutil"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzeForTest(t *testing.T, s Snapshot, name string) Report {
	rep, err := Analyze(s)
	require.NoError(t, err)
	rep.File = name
	return rep
}

func TestWriteReports(t *testing.T) {
	reports := []Report{
		analyzeForTest(t, Snapshot{Records: 10000, Fwd: 4142, Rev: 3953}, "a.bam"),
		analyzeForTest(t, Snapshot{Records: 5000, Fwd: 5000, Rev: 0}, "b.bam"),
		analyzeForTest(t, Snapshot{}, "c.bam"),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, reports))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, 4, len(lines))
	assert.Equal(t,
		"File\tStrandedness\tFwd\tRev\tTotal\tFwd_Ratio\tRev_Ratio\tF2R_Ratio\tLog2_F2R\tRel_Diff\tChi2\tP_value\tCohens_h\tCramers_V\tBayes_Factor\tEpsilon\tHellinger\tEntropy",
		lines[0])

	row := strings.Split(lines[1], "\t")
	require.Equal(t, len(reportColumns), len(row))
	assert.Equal(t, "a.bam", row[0])
	assert.Equal(t, "fr-unstranded", row[1])
	assert.Equal(t, "4142", row[2])
	assert.Equal(t, "3953", row[3])
	assert.Equal(t, "8095", row[4])
	assert.Equal(t, "0.511674", row[5])
	assert.Equal(t, "0.047812", row[9])

	// Unbounded ratios render as the "Inf" sentinel; nothing renders as NaN.
	row = strings.Split(lines[2], "\t")
	assert.Equal(t, "fr-firststrand", row[1])
	assert.Equal(t, "Inf", row[7])
	assert.Equal(t, "Inf", row[9])
	assert.False(t, strings.Contains(buf.String(), "NaN"))

	row = strings.Split(lines[3], "\t")
	assert.Equal(t, "insufficient-data", row[1])
	assert.Equal(t, "0", row[4])
}

func TestWriteReportsFileGzip(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	reports := []Report{
		analyzeForTest(t, Snapshot{Records: 50000, Fwd: 37696, Rev: 3117}, "x.bam"),
	}
	path := filepath.Join(tmpdir, "report.tsv.gz")
	require.NoError(t, WriteReportsFile(context.Background(), path, reports))

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	gzr, err := gzip.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	content, err := ioutil.ReadAll(gzr)
	require.NoError(t, err)
	require.NoError(t, gzr.Close())

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Equal(t, 2, len(lines))
	assert.True(t, strings.HasPrefix(lines[1], "x.bam\tfr-firststrand\t37696\t3117\t40813\t"))
}

func TestWriteFloatSentinel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, []Report{{File: "f", Strandedness: FRUnstranded, F2RRatio: math.Inf(1)}}))
	assert.True(t, strings.Contains(buf.String(), "\tInf\t"))
}
