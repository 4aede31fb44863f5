package focus

import "testing"

func drive(t *testing.T, s Session, ev Event, n int) (Session, []Effect) {
	t.Helper()
	var all []Effect
	for i := 0; i < n; i++ {
		var fx []Effect
		s, fx = Reduce(s, ev)
		all = append(all, fx...)
	}
	return s, all
}

func TestStartTransitions(t *testing.T) {
	s, fx := Reduce(Idle(), Event{Kind: EvStart, Mode: ModeStandard})
	if s.State != StateEngaged || s.Mode != ModeStandard {
		t.Fatalf("state after start: %+v", s)
	}
	if len(fx) != 0 {
		t.Errorf("start should emit no effects, got %v", fx)
	}

	// Starting again while engaged is ignored.
	again, _ := Reduce(s, Event{Kind: EvStart, Mode: ModeDeep})
	if again.Mode != ModeStandard {
		t.Error("start while engaged should be a no-op")
	}

	// Unknown mode is ignored.
	bad, _ := Reduce(Idle(), Event{Kind: EvStart, Mode: "MARATHON"})
	if bad.State != StateIdle {
		t.Error("unknown mode should not engage")
	}
}

func TestPauseStopsTicks(t *testing.T) {
	s, _ := Reduce(Idle(), Event{Kind: EvStart, Mode: ModeDeep})
	s, _ = drive(t, s, Event{Kind: EvTick}, 30)
	s, _ = Reduce(s, Event{Kind: EvPause})

	paused, fx := drive(t, s, Event{Kind: EvTick}, 100)
	if paused.Elapsed != 30 {
		t.Errorf("elapsed advanced while paused: %d", paused.Elapsed)
	}
	if len(fx) != 0 {
		t.Errorf("paused ticks emitted effects: %v", fx)
	}

	resumed, _ := Reduce(paused, Event{Kind: EvResume})
	if resumed.State != StateEngaged {
		t.Errorf("resume state = %q", resumed.State)
	}
}

func TestCheckpointEverySixtySeconds(t *testing.T) {
	s, _ := Reduce(Idle(), Event{Kind: EvStart, Mode: ModeDeep})
	s, fx := drive(t, s, Event{Kind: EvTick}, 185)

	if len(fx) != 3 {
		t.Fatalf("got %d checkpoints over 185s, want 3", len(fx))
	}
	total := 0
	for _, f := range fx {
		if f.Kind != FxCheckpoint {
			t.Fatalf("unexpected effect %q", f.Kind)
		}
		if f.Seconds != 60 {
			t.Errorf("checkpoint delta = %d, want 60", f.Seconds)
		}
		total += f.Seconds
	}
	// Deltas sum to checkpointed time; replaying them cannot exceed it.
	if total != 180 {
		t.Errorf("checkpointed %ds, want 180", total)
	}
	if s.Elapsed-s.LastCheckpoint != 5 {
		t.Errorf("remainder = %d, want 5", s.Elapsed-s.LastCheckpoint)
	}
}

func TestQuickModeCompletes(t *testing.T) {
	s, _ := Reduce(Idle(), Event{Kind: EvStart, Mode: ModeQuick})
	s, fx := drive(t, s, Event{Kind: EvTick}, 15*60)

	if s.State != StateComplete {
		t.Fatalf("state = %q, want COMPLETE", s.State)
	}

	var complete *Effect
	totalSeconds := 0
	for i := range fx {
		totalSeconds += fx[i].Seconds
		if fx[i].Kind == FxComplete {
			if complete != nil {
				t.Fatal("completion emitted twice")
			}
			complete = &fx[i]
		}
	}
	if complete == nil {
		t.Fatal("no completion effect")
	}
	if complete.XP != 30 {
		t.Errorf("quick completion XP = %d, want 30", complete.XP)
	}
	// Checkpoints plus the completion remainder cover the whole session
	// exactly once.
	if totalSeconds != 15*60 {
		t.Errorf("persisted %ds total, want %d", totalSeconds, 15*60)
	}

	// Ticks after completion do nothing.
	after, afterFx := Reduce(s, Event{Kind: EvTick})
	if after.Elapsed != s.Elapsed || len(afterFx) != 0 {
		t.Error("tick after completion should be inert")
	}
}

func TestDeepModeReward(t *testing.T) {
	s, _ := Reduce(Idle(), Event{Kind: EvStart, Mode: ModeDeep})
	_, fx := drive(t, s, Event{Kind: EvTick}, 50*60)

	for _, f := range fx {
		if f.Kind == FxComplete {
			if f.XP != 150 {
				t.Errorf("deep completion XP = %d, want 150", f.XP)
			}
			return
		}
	}
	t.Fatal("deep session never completed")
}

func TestStopwatchStopAwardsXP(t *testing.T) {
	s, _ := Reduce(Idle(), Event{Kind: EvStart, Mode: ModeStopwatch})
	s, _ = drive(t, s, Event{Kind: EvTick}, 1250)

	s, fx := Reduce(s, Event{Kind: EvStop})
	if s.State != StateIdle {
		t.Errorf("state after stop = %q", s.State)
	}

	var complete *Effect
	for i := range fx {
		if fx[i].Kind == FxComplete {
			complete = &fx[i]
		}
	}
	if complete == nil {
		t.Fatal("stopwatch stop emitted no completion")
	}
	// 1250s is two full 600s blocks.
	if complete.XP != 20 {
		t.Errorf("stopwatch XP = %d, want 20", complete.XP)
	}
}

func TestStopCountdownFlushesRemainder(t *testing.T) {
	s, _ := Reduce(Idle(), Event{Kind: EvStart, Mode: ModeStandard})
	s, _ = drive(t, s, Event{Kind: EvTick}, 90)

	_, fx := Reduce(s, Event{Kind: EvStop})
	if len(fx) != 1 || fx[0].Kind != FxCheckpoint {
		t.Fatalf("stop effects = %v", fx)
	}
	// 90s elapsed, 60 already checkpointed by ticking.
	if fx[0].Seconds != 30 {
		t.Errorf("final checkpoint = %d, want 30", fx[0].Seconds)
	}
}

func TestStopFromIdleIsInert(t *testing.T) {
	s, fx := Reduce(Idle(), Event{Kind: EvStop})
	if s.State != StateIdle || len(fx) != 0 {
		t.Errorf("stop from idle: %+v %v", s, fx)
	}
}
