// Package focus implements the focus timer as a reducer over explicit
// events. All transitions flow through Reduce, so persistence effects
// (checkpoints, completion credit) are emitted exactly once per cause
// and the state can be inspected or tested without any clock running.
package focus

// Session states
const (
	StateIdle     = "IDLE"
	StateEngaged  = "ENGAGED"
	StatePaused   = "PAUSED"
	StateComplete = "COMPLETE"
)

// Timer modes
const (
	ModeDeep      = "DEEP"
	ModeStandard  = "STANDARD"
	ModeQuick     = "QUICK"
	ModeStopwatch = "STOPWATCH"
)

// checkpointInterval is how much accrued time may be lost on a crash
const checkpointInterval = 60

// stopwatchXPStep awards XP for every full block of open-ended focus
const (
	stopwatchXPStep   = 10
	stopwatchStepSecs = 600
)

// ModeSpec describes a countdown mode. Stopwatch has no target.
type ModeSpec struct {
	TargetSeconds int
	XPReward      int
}

// Modes is the mode table
var Modes = map[string]ModeSpec{
	ModeDeep:      {TargetSeconds: 50 * 60, XPReward: 150},
	ModeStandard:  {TargetSeconds: 25 * 60, XPReward: 60},
	ModeQuick:     {TargetSeconds: 15 * 60, XPReward: 30},
	ModeStopwatch: {},
}

// Session is the reducer state for one user's timer
type Session struct {
	State          string `json:"state"`
	Mode           string `json:"mode,omitempty"`
	Elapsed        int    `json:"elapsed"` // seconds in ENGAGED
	LastCheckpoint int    `json:"-"`       // elapsed value at last persisted checkpoint
}

// Event kinds
const (
	EvStart  = "start"
	EvTick   = "tick"
	EvPause  = "pause"
	EvResume = "resume"
	EvStop   = "stop"
)

// Event is one input to the reducer. Mode is only read on EvStart.
type Event struct {
	Kind string
	Mode string
}

// Effect kinds
const (
	FxCheckpoint = "checkpoint"
	FxComplete   = "complete"
)

// Effect is a persistence side effect the caller must apply. Checkpoint
// carries only the seconds accrued since the previous checkpoint, so
// applying the same effect stream twice cannot double-count.
type Effect struct {
	Kind    string
	Seconds int
	XP      int
}

// Idle is the zero session
func Idle() Session {
	return Session{State: StateIdle}
}

// Reduce applies one event. Invalid events for the current state are
// ignored and return the session unchanged with no effects.
func Reduce(s Session, ev Event) (Session, []Effect) {
	switch ev.Kind {
	case EvStart:
		if s.State != StateIdle && s.State != StateComplete {
			return s, nil
		}
		if _, ok := Modes[ev.Mode]; !ok {
			return s, nil
		}
		return Session{State: StateEngaged, Mode: ev.Mode}, nil

	case EvTick:
		if s.State != StateEngaged {
			return s, nil
		}
		return tick(s)

	case EvPause:
		if s.State != StateEngaged {
			return s, nil
		}
		s.State = StatePaused
		return s, nil

	case EvResume:
		if s.State != StatePaused {
			return s, nil
		}
		s.State = StateEngaged
		return s, nil

	case EvStop:
		return stop(s)
	}
	return s, nil
}

func tick(s Session) (Session, []Effect) {
	s.Elapsed++
	var effects []Effect

	spec := Modes[s.Mode]
	if spec.TargetSeconds > 0 && s.Elapsed >= spec.TargetSeconds {
		// Completion credits the whole session in one effect; pending
		// checkpoint remainder is folded in rather than emitted twice.
		s.State = StateComplete
		effects = append(effects, Effect{
			Kind:    FxComplete,
			Seconds: s.Elapsed - s.LastCheckpoint,
			XP:      spec.XPReward,
		})
		s.LastCheckpoint = s.Elapsed
		return s, effects
	}

	if s.Elapsed-s.LastCheckpoint >= checkpointInterval {
		effects = append(effects, Effect{
			Kind:    FxCheckpoint,
			Seconds: s.Elapsed - s.LastCheckpoint,
		})
		s.LastCheckpoint = s.Elapsed
	}
	return s, effects
}

func stop(s Session) (Session, []Effect) {
	if s.State != StateEngaged && s.State != StatePaused {
		return Idle(), nil
	}

	var effects []Effect
	remainder := s.Elapsed - s.LastCheckpoint

	if s.Mode == ModeStopwatch {
		xp := s.Elapsed / stopwatchStepSecs * stopwatchXPStep
		effects = append(effects, Effect{Kind: FxComplete, Seconds: remainder, XP: xp})
	} else if remainder > 0 {
		effects = append(effects, Effect{Kind: FxCheckpoint, Seconds: remainder})
	}

	return Idle(), effects
}
