package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/yudalang3/resolveS/strand"
)

var (
	mapq        = flag.Int("mapq", strand.DefaultMapq, "Mapped reads with MAPQ at or below this value are excluded from strand counts")
	blockSize   = flag.Int64("block-size", 0, "Emit a cumulative report row every N reads; 0 = one row per file. The conventional cadence is 1000000")
	maxBlocks   = flag.Int("max-blocks", 0, "Stop reading each file after this many block rows; 0 = no bound")
	countsInput = flag.Bool("counts", false, "Inputs are precomputed counts tables rather than SAM/BAM files")
	outPath     = flag.String("out", "", "Output TSV path (\".gz\" suffix compresses); default stdout")
	parallelism = flag.Int("parallelism", 0, "Maximum number of files processed simultaneously; 0 = runtime.NumCPU()")
)

func strandCheckUsage() {
	fmt.Printf("Usage: %s [OPTIONS] alignments.bam [alignments2.bam ...]\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = strandCheckUsage
	shutdown := grail.Init()
	defer shutdown()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatalf("At least one alignment file (or counts table, with -counts) required")
	}
	ctx := vcontext.Background()
	opts := strand.BatchOpts{
		Opts: strand.Opts{
			Mapq:      *mapq,
			BlockSize: *blockSize,
			MaxBlocks: *maxBlocks,
		},
		CountsInput: *countsInput,
		Parallelism: *parallelism,
	}
	reports, err := strand.AnalyzeFiles(ctx, paths, &opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *outPath == "" {
		err = strand.WriteReports(os.Stdout, reports)
	} else {
		err = strand.WriteReportsFile(ctx, *outPath, reports)
	}
	if err != nil {
		log.Fatalf("writing report: %v", err)
	}
}
