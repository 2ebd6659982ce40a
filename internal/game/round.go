package game

// StartRound validates and performs a round start. pick receives the current
// membership size and must return an index into it; randomness is injected so
// tagger selection is deterministic under test.
//
// Validation is atomic: nothing is mutated until every check has passed, so a
// failed start never leaves partially-applied round state behind.
func (r *Room) StartRound(requesterID string, pick func(n int) int) (string, error) {
	if requesterID != r.HostID {
		return "", ErrNotHost
	}
	if r.Started {
		return "", ErrRoundActive
	}
	if len(r.order) == 0 {
		return "", ErrNoPlayers
	}

	for _, p := range r.Players {
		p.IsTagger = false
	}
	tagger := r.order[pick(len(r.order))]
	r.Players[tagger].IsTagger = true
	r.TaggerID = tagger
	r.Remaining = r.Settings.Timer
	r.Started = true
	return tagger, nil
}

// Tick advances the countdown by one second. It reports the new remaining
// time and whether the round just ended. Ticking an idle room is a no-op, so
// a stale timer fire cannot corrupt state.
func (r *Room) Tick() (int, bool) {
	if !r.Started {
		return 0, false
	}
	if r.Remaining > 0 {
		r.Remaining--
	}
	if r.Remaining <= 0 {
		r.EndRound()
		return 0, true
	}
	return r.Remaining, false
}

// EndRound transitions to idle and clears all tagger state. Idempotent:
// ending an already-idle round reports false and changes nothing.
func (r *Room) EndRound() bool {
	if !r.Started {
		return false
	}
	r.Started = false
	r.TaggerID = ""
	r.Remaining = 0
	for _, p := range r.Players {
		p.IsTagger = false
	}
	return true
}
