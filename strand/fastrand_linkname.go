package strand

import (
	_ "unsafe" // for go:linkname
)

// The pinned github.com/grailbio/hts release linknames sync.fastrand, a
// symbol the sync package no longer defines as of Go 1.19.  Re-export the
// runtime implementation under that name so binaries linking hts/sam still
// resolve.

//go:linkname syncFastrand sync.fastrand
func syncFastrand() uint32 { return runtimeFastrand() }

//go:linkname runtimeFastrand runtime.fastrand
func runtimeFastrand() uint32
