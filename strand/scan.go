package strand

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// Scan makes one sequential pass over the alignment records in path, feeding
// each record's FLAG and MAPQ into a Counter, and returns the ordered
// snapshot sequence.  Files ending in ".sam" are read as SAM text, everything
// else as BAM.  Record order is preserved (block boundaries are
// order-sensitive), and in incremental mode reading stops as soon as the
// block budget is spent.
func Scan(ctx context.Context, path string, opts *Opts) (snaps []Snapshot, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)

	c := NewCounter(opts)
	if strings.HasSuffix(path, ".sam") {
		err = scanSAM(in.Reader(ctx), c)
	} else {
		err = scanBAM(in.Reader(ctx), c)
	}
	if err != nil {
		return nil, errors.E(err, path)
	}
	return c.Finish(), nil
}

func scanBAM(r io.Reader, c *Counter) error {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return err
	}
	defer br.Close()
	for {
		rec, err := br.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		more := c.Push(rec.Flags, rec.MapQ)
		sam.PutInFreePool(rec)
		if !more {
			return nil
		}
	}
}

func scanSAM(r io.Reader, c *Counter) error {
	sr, err := sam.NewReader(r)
	if err != nil {
		return err
	}
	for {
		rec, err := sr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !c.Push(rec.Flags, rec.MapQ) {
			return nil
		}
	}
}
