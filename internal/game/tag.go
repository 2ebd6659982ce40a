package game

import (
	"errors"
	"time"
)

var ErrRoundNotActive = errors.New("round not active")
var ErrNotTagger = errors.New("sender is not the tagger")
var ErrTargetNotFound = errors.New("target is not a member")
var ErrImmune = errors.New("sender is immune")
var ErrSelfTag = errors.New("cannot tag yourself")

// ImmunityWindow is how long a freshly tagged player cannot pass the tag on.
const ImmunityWindow = 500 * time.Millisecond

type TagResult struct {
	NewTaggerID string
	OldTaggerID string
	ImmuneUntil time.Time
}

// ApplyTag validates a tag attempt and, if valid, hands tagger status to the
// target. Immunity belongs to whoever just became tagger and decays purely by
// wall-clock comparison at check time; no expiry timer is scheduled.
func (r *Room) ApplyTag(senderID, targetID string, now time.Time) (TagResult, error) {
	if !r.Started {
		return TagResult{}, ErrRoundNotActive
	}
	sender, ok := r.Players[senderID]
	if !ok || r.TaggerID != senderID {
		return TagResult{}, ErrNotTagger
	}
	target, ok := r.Players[targetID]
	if !ok {
		return TagResult{}, ErrTargetNotFound
	}
	if now.Before(sender.ImmuneUntil) {
		return TagResult{}, ErrImmune
	}
	if senderID == targetID {
		return TagResult{}, ErrSelfTag
	}

	sender.IsTagger = false
	target.IsTagger = true
	target.ImmuneUntil = now.Add(ImmunityWindow)
	r.TaggerID = targetID
	return TagResult{
		NewTaggerID: targetID,
		OldTaggerID: senderID,
		ImmuneUntil: target.ImmuneUntil,
	}, nil
}
