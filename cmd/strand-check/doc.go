/*
strand-check determines whether an RNA-seq library is strand-specific, and in
which orientation, from the alignments of a read subsample.  Each input file
is scanned once; primary, quality-passing alignments are split by strand and
the forward/reverse imbalance is tested against a 50/50 null, yielding one of
fr-firststrand, fr-secondstrand, fr-unstranded, or insufficient-data per file,
together with the supporting statistics.

With -block-size, a cumulative report row is emitted every N reads so callers
can stop sampling early once a row already carries enough evidence.

Sample usage:
strand-check \
    -mapq 20 \
    -out report.tsv \
    sample1.bam sample2.bam
*/
package main
