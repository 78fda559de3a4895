package gesture

// Step is one scripted gesture held for a number of ticks.
type Step struct {
	Snapshot Snapshot
	Ticks    int
}

// Script replays a fixed gesture sequence, one snapshot per Sample call.
// Past the end it keeps returning the final snapshot with Present forced
// false, so a finished script reads as a vanished hand. Used by tests and
// the offline snapshot tool.
type Script struct {
	steps []Step
	step  int
	tick  int
}

// NewScript builds a scripted provider.
func NewScript(steps []Step) *Script {
	return &Script{steps: steps}
}

// Sample returns the current step's snapshot and advances the script.
func (s *Script) Sample() Snapshot {
	if s.step >= len(s.steps) {
		return Snapshot{}
	}
	cur := s.steps[s.step]
	s.tick++
	if s.tick >= cur.Ticks {
		s.tick = 0
		s.step++
	}
	return cur.Snapshot
}

// Done reports whether the script has been fully consumed.
func (s *Script) Done() bool {
	return s.step >= len(s.steps)
}
