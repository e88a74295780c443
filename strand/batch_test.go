package strand

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFilesCounts(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	// One table per library, as written by the upstream counting stage.
	paths := []string{
		filepath.Join(tmpdir, "unstranded.counts.txt"),
		filepath.Join(tmpdir, "stranded.counts.txt"),
	}
	require.NoError(t, ioutil.WriteFile(paths[0], []byte("10000 4142 3953 1905 0 0 lib-a\n"), 0644))
	require.NoError(t, ioutil.WriteFile(paths[1], []byte("4000000 3117 37696 3959187 0 0 lib-b\n"), 0644))

	reports, err := AnalyzeFiles(context.Background(), paths, &BatchOpts{CountsInput: true, Parallelism: 2})
	require.NoError(t, err)
	require.Equal(t, 2, len(reports))
	// Input order is preserved regardless of worker scheduling, and counts
	// tables name their own rows.
	assert.Equal(t, "lib-a", reports[0].File)
	assert.Equal(t, FRUnstranded, reports[0].Strandedness)
	assert.Equal(t, "lib-b", reports[1].File)
	assert.Equal(t, FRSecondstrand, reports[1].Strandedness)
}

func TestAnalyzeFilesIncrementalLabels(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	path := writeToySAM(t, tmpdir)
	opts := &BatchOpts{Opts: Opts{Mapq: 20, BlockSize: 3}}
	reports, err := AnalyzeFiles(context.Background(), []string{path}, opts)
	require.NoError(t, err)
	require.Equal(t, 2, len(reports))
	assert.Equal(t, path+":3", reports[0].File)
	assert.Equal(t, path+":6", reports[1].File)
	assert.Equal(t, InsufficientData, reports[0].Strandedness)
}

func TestAnalyzeFilesMissingFile(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	missing := filepath.Join(tmpdir, "missing.counts.txt")
	_, err := AnalyzeFiles(context.Background(), []string{missing}, &BatchOpts{CountsInput: true})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing.counts.txt"))
}
