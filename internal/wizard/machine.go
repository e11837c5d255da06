package wizard

import "time"

// TransitionDelay is the fixed visual delay between starting a step
// transition and committing it.
const TransitionDelay = 300 * time.Millisecond

type Direction int

const (
	DirForward Direction = iota
	DirBackward
)

// Machine holds the wizard's step position and the single in-flight
// transition gate. All access is from the UI event loop, so a plain
// boolean gate is the only concurrency control needed.
type Machine struct {
	current  int
	pending  int
	inFlight bool
	dir      Direction
}

// NewMachine starts at the given step, clamped into [0, StepCount-1].
// Rehydrated drafts may carry an out-of-range index.
func NewMachine(start int) *Machine {
	if start < 0 {
		start = 0
	}
	if start > StepCount-1 {
		start = StepCount - 1
	}
	return &Machine{current: start, pending: start}
}

func (m *Machine) Current() Step {
	return Step(m.current)
}

// InFlight reports whether a transition has begun but not committed.
func (m *Machine) InFlight() bool {
	return m.inFlight
}

// Direction reports the presentation direction of the last transition.
func (m *Machine) Direction() Direction {
	return m.dir
}

// BeginNext starts a forward transition. No-op past the last step or
// while another transition is in flight.
func (m *Machine) BeginNext() bool {
	return m.begin(m.current+1, DirForward)
}

// BeginPrev starts a backward transition. No-op below step zero or
// while another transition is in flight.
func (m *Machine) BeginPrev() bool {
	return m.begin(m.current-1, DirBackward)
}

// BeginJump starts a backward jump to an already-visited step. Forward
// jumps are rejected: progress dots only navigate to steps behind the
// current position.
func (m *Machine) BeginJump(target Step) bool {
	if int(target) >= m.current {
		return false
	}
	return m.begin(int(target), DirBackward)
}

func (m *Machine) begin(target int, dir Direction) bool {
	if m.inFlight {
		return false
	}
	if target < 0 || target > StepCount-1 {
		return false
	}
	m.pending = target
	m.dir = dir
	m.inFlight = true
	return true
}

// Finish commits the pending step and clears the gate. The caller is
// expected to invoke it once per successful Begin*, after
// TransitionDelay, and to persist the draft and reset the step viewport
// alongside the commit.
func (m *Machine) Finish() Step {
	if !m.inFlight {
		return Step(m.current)
	}
	m.current = m.pending
	m.inFlight = false
	return Step(m.current)
}
