package engine

// Hold-timer trigger conditions and transition thresholds, seconds. All
// comparisons are strict: a timer sitting exactly at its threshold does not
// fire.
const (
	stressHoldAbove     = 0.7
	collapseHoldAbove   = 0.85
	recoverHoldBelow    = 0.45
	extinctionHoldAbove = 0.92
	rebirthHoldBelow    = 0.35

	aliveToStressed      = 2.0
	stressedToCollapse   = 3.0
	stressedToRecover    = 2.5
	collapseToExtinction = 4.0
	collapseToRecover    = 2.0
	recoverToAlive       = 2.5
	recoverToStressed    = 2.0
	extinctionToRebirth  = 3.0
	rebirthToAlive       = 2.0
)

// stepLifecycle advances the hysteresis machine by dt under the given stress.
// Higher-severity transitions are checked first within a phase so escalation
// wins when timers race.
func stepLifecycle(ls LifeState, stress, dt float64) LifeState {
	ls.Stress = stress
	ls.TimeInPhase += dt

	accumulate(&ls.StressHold, stress > stressHoldAbove, dt)
	accumulate(&ls.CollapseHold, stress > collapseHoldAbove, dt)
	accumulate(&ls.RecoverHold, stress < recoverHoldBelow, dt)
	accumulate(&ls.ExtinctionHold, stress > extinctionHoldAbove, dt)
	accumulate(&ls.RebirthHold, stress < rebirthHoldBelow, dt)

	switch ls.Phase {
	case PhaseAlive:
		if ls.StressHold > aliveToStressed {
			return enter(ls, PhaseStressed)
		}
	case PhaseStressed:
		if ls.CollapseHold > stressedToCollapse {
			return enter(ls, PhaseCollapse)
		}
		if ls.RecoverHold > stressedToRecover {
			return enter(ls, PhaseRecover)
		}
	case PhaseCollapse:
		if ls.ExtinctionHold > collapseToExtinction {
			return enter(ls, PhaseExtinction)
		}
		if ls.RecoverHold > collapseToRecover {
			return enter(ls, PhaseRecover)
		}
	case PhaseRecover:
		if ls.RecoverHold > recoverToAlive {
			return enter(ls, PhaseAlive)
		}
		if ls.StressHold > recoverToStressed {
			return enter(ls, PhaseStressed)
		}
	case PhaseExtinction:
		if ls.RebirthHold > extinctionToRebirth {
			return enter(ls, PhaseRebirth)
		}
	case PhaseRebirth:
		if ls.RecoverHold > rebirthToAlive {
			return enter(ls, PhaseAlive)
		}
	}
	return ls
}

func accumulate(timer *float64, holds bool, dt float64) {
	if holds {
		*timer += dt
	} else {
		*timer = 0
	}
}

// enter switches phase, zeroing the phase age and all five timers.
func enter(ls LifeState, p Phase) LifeState {
	ls.Phase = p
	ls.TimeInPhase = 0
	ls.StressHold = 0
	ls.CollapseHold = 0
	ls.RecoverHold = 0
	ls.ExtinctionHold = 0
	ls.RebirthHold = 0
	return ls
}
