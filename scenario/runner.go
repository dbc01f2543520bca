package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Failure is an expect step that did not hold.
type Failure struct {
	Step    int
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("step %d: %s", f.Step, f.Message)
}

// Runner sequences the scenario's steps across frames. Call Tick once per
// frame before the stage processes input.
type Runner struct {
	sc        *Scenario
	log       *slog.Logger
	cursor    int
	waitCount int
	done      bool
	failures  []Failure
}

// NewRunner returns a runner positioned at the first step.
func NewRunner(sc *Scenario, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{sc: sc, log: logger.With("component", "scenario")}
	if len(sc.File.Steps) == 0 {
		r.done = true
	}
	return r
}

// Done reports whether all steps have been executed and their input
// consumed.
func (r *Runner) Done() bool {
	return r.done
}

// Failures returns the failed expectations so far.
func (r *Runner) Failures() []Failure {
	return r.failures
}

// Err returns nil when every expectation held.
func (r *Runner) Err() error {
	if len(r.failures) == 0 {
		return nil
	}
	msgs := make([]string, len(r.failures))
	for i, f := range r.failures {
		msgs[i] = f.String()
	}
	return errors.New("scenario: " + strings.Join(msgs, "; "))
}

// Tick advances the runner by one frame.
func (r *Runner) Tick() {
	if r.done {
		return
	}
	s := r.sc.Stage
	// Wait for pending injections to drain before advancing.
	if s.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
	} else {
		// Steps that inject nothing run back to back within one frame.
		for r.cursor < len(r.sc.File.Steps) {
			i := r.cursor
			st := r.sc.File.Steps[i]
			r.cursor++
			r.exec(i, st)
			if s.Pending() > 0 || r.waitCount > 0 {
				break
			}
		}
	}

	if r.cursor >= len(r.sc.File.Steps) && r.waitCount == 0 && s.Pending() == 0 {
		r.done = true
	}
}

func (r *Runner) exec(i int, st Step) {
	s := r.sc.Stage
	button, _ := parseButton(st.Button)
	r.log.Debug("step", "index", i, "action", st.Action)

	switch st.Action {
	case ActionPress:
		s.InjectPressButton(st.X, st.Y, button)
	case ActionMove:
		s.InjectMove(st.X, st.Y)
	case ActionRelease:
		s.InjectRelease(st.X, st.Y)
	case ActionClick:
		s.InjectPressButton(st.X, st.Y, button)
		s.InjectRelease(st.X, st.Y)
	case ActionDrag:
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case ActionWait:
		r.waitCount = st.Frames - 1 // this frame counts as one
	case ActionUnbind:
		r.sc.Unbind(st.Box)
	case ActionExpect:
		r.expect(i, st)
	}
}

func (r *Runner) expect(i int, st Step) {
	b := r.sc.Stage.Find(st.Box)
	if b == nil {
		r.fail(i, fmt.Sprintf("box %q not found", st.Box))
		return
	}
	if st.Left != nil && b.Left() != *st.Left {
		r.fail(i, fmt.Sprintf("%s left = %v, want %v", st.Box, b.Left(), *st.Left))
	}
	if st.Top != nil && b.Top() != *st.Top {
		r.fail(i, fmt.Sprintf("%s top = %v, want %v", st.Box, b.Top(), *st.Top))
	}
	if st.Dragging != nil && r.sc.Dragging(st.Box) != *st.Dragging {
		r.fail(i, fmt.Sprintf("%s dragging = %v, want %v", st.Box, !*st.Dragging, *st.Dragging))
	}
}

func (r *Runner) fail(i int, msg string) {
	r.log.Warn("expectation failed", "step", i, "msg", msg)
	r.failures = append(r.failures, Failure{Step: i, Message: msg})
}

// RunHeadless plays the scenario without a window, stepping the stage's
// synthetic input directly. It stops after maxFrames frames (0 means no
// limit) and returns the number of frames run.
func (r *Runner) RunHeadless(maxFrames int) (int, error) {
	frames := 0
	for !r.done {
		if maxFrames > 0 && frames >= maxFrames {
			return frames, fmt.Errorf("scenario: not finished after %d frames", maxFrames)
		}
		r.Tick()
		r.sc.Stage.Step()
		frames++
	}
	return frames, r.Err()
}
