package main

import "github.com/criticaltext/cbgm/internal/cberr"

// exitCodeFor maps an error returned from a subcommand's RunE to the
// process exit code table of spec.md §6, via internal/cberr's
// classifier.
func exitCodeFor(err error) int {
	return cberr.ExitCode(err)
}

// cberrAsOutputCollision reports whether err is an output-collision
// error (spec.md §7: recoverable, skip the task deterministically).
func cberrAsOutputCollision(err error) (*cberr.Error, bool) {
	e, ok := cberr.As(err)
	if !ok || e.Kind != cberr.KindOutputCollision {
		return nil, false
	}
	return e, true
}
