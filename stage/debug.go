package stage

import "time"

// debugMaxTreeDepth is the depth past which Validate warns.
const debugMaxTreeDepth = 32

// debugFrame logs input timing and dispatch counts for one frame.
func (s *Stage) debugFrame(elapsed time.Duration, dispatched int) {
	s.log.Debug("frame",
		"frame", s.frame,
		"input", elapsed,
		"dispatched", dispatched,
		"listeners", s.ListenerCount(),
		"pending", len(s.injectQueue))
}

// Validate walks the tree and logs a warning for boxes nested deeper than
// debugMaxTreeDepth or disposed boxes still attached. It returns the number
// of problems found.
func (s *Stage) Validate() int {
	return s.validate(s.root, 1)
}

func (s *Stage) validate(b *Box, depth int) int {
	n := 0
	if depth > debugMaxTreeDepth {
		s.log.Warn("tree depth exceeds limit", "box", b.Name, "depth", depth, "limit", debugMaxTreeDepth)
		n++
	}
	if b.disposed {
		s.log.Warn("disposed box still attached", "box", b.Name)
		n++
	}
	for _, c := range b.children {
		n += s.validate(c, depth+1)
	}
	return n
}
