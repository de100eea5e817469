package game

// Report summarizes a headless run.
type Report struct {
	Ticks      int
	Died       int // Deadly resets, including repeats
	FellOut    int
	Broken     int // Breakable tiles removed
	Completion *Completion
}

// Simulate steps the session as fast as possible, without pacing, until it
// finishes or maxTicks ticks have run. onTick, when set, sees the state after
// every tick.
func Simulate(s *Session, input IntentSource, maxTicks int, onTick func(Snapshot, StepResult)) Report {
	if input == nil {
		input = FixedIntent{}
	}
	var rep Report
	for rep.Ticks < maxTicks && !s.Finished() {
		res := s.Step(input.Intent())
		rep.Ticks++
		rep.Broken += len(res.Broken)

		switch res.Outcome {
		case OutcomeDied:
			rep.Died++
		case OutcomeFellOut:
			rep.FellOut++
		}
		// Headless runs have no wall clock; a second is TickRate ticks.
		if s.frameOfSecond >= s.TickRate() {
			s.ResetSecond()
		}
		if onTick != nil {
			onTick(s.Snapshot(), res)
		}
	}
	if c, ok := s.Completion(); ok {
		rep.Completion = &c
	}
	return rep
}
