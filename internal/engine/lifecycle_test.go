package engine

import "testing"

// drive applies stepLifecycle n times with constant stress and dt.
func drive(ls LifeState, stress, dt float64, n int) LifeState {
	for i := 0; i < n; i++ {
		ls = stepLifecycle(ls, stress, dt)
	}
	return ls
}

func TestHysteresisStrictThreshold(t *testing.T) {
	ls := LifeState{Phase: PhaseAlive}

	// 8 steps of 0.25s is exactly 2.0s of held stress: no transition yet.
	ls = drive(ls, 0.8, 0.25, 8)
	if ls.Phase != PhaseAlive {
		t.Fatalf("transitioned at exactly 2.0s of stressHold, phase=%s", ls.Phase)
	}
	if ls.StressHold != 2.0 {
		t.Fatalf("stressHold = %v, want 2.0", ls.StressHold)
	}

	// One more hundredth of a second tips it over.
	ls = stepLifecycle(ls, 0.8, 0.01)
	if ls.Phase != PhaseStressed {
		t.Fatalf("expected STRESSED after 2.01s, got %s", ls.Phase)
	}
}

func TestTransitionResetsAllTimers(t *testing.T) {
	ls := LifeState{Phase: PhaseAlive}
	ls = drive(ls, 0.8, 0.25, 9) // past 2s, now STRESSED
	if ls.Phase != PhaseStressed {
		t.Fatalf("setup failed, phase=%s", ls.Phase)
	}
	if ls.TimeInPhase != 0 || ls.StressHold != 0 || ls.CollapseHold != 0 ||
		ls.RecoverHold != 0 || ls.ExtinctionHold != 0 || ls.RebirthHold != 0 {
		t.Fatalf("timers not zeroed on entry: %+v", ls)
	}

	// Re-entering a stress>0.7 condition must accumulate from zero, not
	// carry the pre-transition hold.
	ls = stepLifecycle(ls, 0.8, 0.25)
	if ls.StressHold != 0.25 {
		t.Fatalf("stressHold after one post-transition step = %v, want 0.25", ls.StressHold)
	}
}

func TestTimerResetsWhenConditionBreaks(t *testing.T) {
	ls := LifeState{Phase: PhaseAlive}
	ls = drive(ls, 0.8, 0.25, 7)
	if ls.StressHold == 0 {
		t.Fatal("setup: stressHold should have accumulated")
	}
	ls = stepLifecycle(ls, 0.5, 0.25)
	if ls.StressHold != 0 {
		t.Fatalf("stressHold = %v after stress dropped, want 0", ls.StressHold)
	}
}

func TestEscalationPath(t *testing.T) {
	ls := LifeState{Phase: PhaseAlive}

	ls = drive(ls, 0.88, 0.25, 9)
	if ls.Phase != PhaseStressed {
		t.Fatalf("want STRESSED, got %s", ls.Phase)
	}
	ls = drive(ls, 0.88, 0.25, 13) // collapseHold passes 3s
	if ls.Phase != PhaseCollapse {
		t.Fatalf("want COLLAPSE, got %s", ls.Phase)
	}
	ls = drive(ls, 0.95, 0.25, 17) // extinctionHold passes 4s
	if ls.Phase != PhaseExtinction {
		t.Fatalf("want EXTINCTION, got %s", ls.Phase)
	}
	ls = drive(ls, 0.2, 0.25, 13) // rebirthHold passes 3s
	if ls.Phase != PhaseRebirth {
		t.Fatalf("want REBIRTH, got %s", ls.Phase)
	}
	ls = drive(ls, 0.2, 0.25, 9) // recoverHold passes 2s
	if ls.Phase != PhaseAlive {
		t.Fatalf("want ALIVE, got %s", ls.Phase)
	}
}

func TestCollapseRecoverPath(t *testing.T) {
	ls := LifeState{Phase: PhaseCollapse}
	ls = drive(ls, 0.3, 0.25, 9) // recoverHold passes 2s
	if ls.Phase != PhaseRecover {
		t.Fatalf("want RECOVER, got %s", ls.Phase)
	}
	ls = drive(ls, 0.3, 0.25, 11) // recoverHold passes 2.5s
	if ls.Phase != PhaseAlive {
		t.Fatalf("want ALIVE, got %s", ls.Phase)
	}
}

func TestRecoverCanRegress(t *testing.T) {
	ls := LifeState{Phase: PhaseRecover}
	ls = drive(ls, 0.8, 0.25, 9) // stressHold passes 2s
	if ls.Phase != PhaseStressed {
		t.Fatalf("want STRESSED, got %s", ls.Phase)
	}
}

func TestExtinctionIgnoresRecovery(t *testing.T) {
	// Only rebirth (stress < 0.35) leaves EXTINCTION; stress in [0.35, 0.45)
	// builds recoverHold but never transitions.
	ls := LifeState{Phase: PhaseExtinction}
	ls = drive(ls, 0.4, 0.25, 40)
	if ls.Phase != PhaseExtinction {
		t.Fatalf("EXTINCTION left via recoverHold, got %s", ls.Phase)
	}
}
