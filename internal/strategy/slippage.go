package strategy

type scanVerdict int

const (
	// scanNext moves one bar further back.
	scanNext scanVerdict = iota
	// scanMatch stops the scan with a qualifying bar.
	scanMatch
	// scanStop ends the scan without a match; the detector may still continue.
	scanStop
	// scanAbort ends the scan and the detector for this direction.
	scanAbort
)

// scanBack visits offsets first, first-1, ... for at most depth steps. Offsets are
// negative positions from the newest closed bar (-1 is the last closed bar).
// It returns the offset that matched, or the verdict that ended the scan.
func scanBack(first, depth int, visit func(off int) scanVerdict) (int, scanVerdict) {
	for step := 0; step < depth; step++ {
		off := first - step
		switch v := visit(off); v {
		case scanMatch:
			return off, v
		case scanStop, scanAbort:
			return 0, v
		}
	}
	return 0, scanStop
}
