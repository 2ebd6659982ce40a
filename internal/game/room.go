package game

import (
	"errors"
	"time"
)

var ErrRoomFull = errors.New("room is full")
var ErrNotHost = errors.New("requester is not the host")
var ErrRoundActive = errors.New("round already active")
var ErrNoPlayers = errors.New("no players to select a tagger from")

const (
	MaxPlayers          = 6
	SpawnX              = 400.0
	SpawnY              = 300.0
	DefaultRoundSeconds = 120
)

type Player struct {
	ID          string
	X           float64
	Y           float64
	VelocityX   float64
	VelocityY   float64
	FlipX       bool
	IsTagger    bool
	ImmuneUntil time.Time
}

// Movement is a client-reported position update. It is applied without
// plausibility checks; the client is authoritative for movement.
type Movement struct {
	X         float64
	Y         float64
	VelocityX float64
	VelocityY float64
	FlipX     bool
}

type Settings struct {
	Timer int // round duration in seconds
}

// Room is the per-session aggregate: roster, host, settings, and round state.
// Members are kept in join order so host promotion is deterministic (Go map
// iteration order is not).
type Room struct {
	Code      string
	Players   map[string]*Player
	order     []string
	HostID    string
	Settings  Settings
	TaggerID  string // empty when no round is active
	Started   bool
	Remaining int
}

func NewRoom(code, hostID string, settings Settings) *Room {
	if settings.Timer <= 0 {
		settings.Timer = DefaultRoundSeconds
	}
	r := &Room{
		Code:     code,
		Players:  make(map[string]*Player),
		Settings: settings,
		HostID:   hostID,
	}
	r.Players[hostID] = newPlayer(hostID)
	r.order = append(r.order, hostID)
	return r
}

func newPlayer(id string) *Player {
	return &Player{ID: id, X: SpawnX, Y: SpawnY}
}

func (r *Room) AddPlayer(id string) (*Player, error) {
	if len(r.order) >= MaxPlayers {
		return nil, ErrRoomFull
	}
	p := newPlayer(id)
	r.Players[id] = p
	r.order = append(r.order, id)
	return p, nil
}

// MemberIDs returns the roster in join order.
func (r *Room) MemberIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Room) Len() int { return len(r.order) }

type RemoveResult struct {
	Removed    bool
	NewHostID  string // set when the departing member was host and someone remains
	Empty      bool   // the room has no members left and must be destroyed
	RoundEnded bool   // an active round was ended because membership dropped below 2
}

// RemovePlayer drops a member, promoting the first remaining member to host if
// the host left, and force-ending the round if fewer than two players remain.
func (r *Room) RemovePlayer(id string) RemoveResult {
	if _, ok := r.Players[id]; !ok {
		return RemoveResult{}
	}
	delete(r.Players, id)
	for i, m := range r.order {
		if m == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	res := RemoveResult{Removed: true}
	if r.HostID == id {
		r.HostID = ""
		if len(r.order) > 0 {
			r.HostID = r.order[0]
			res.NewHostID = r.HostID
		}
	}
	if len(r.order) == 0 {
		r.EndRound()
		res.Empty = true
		return res
	}
	if r.Started && len(r.order) < 2 {
		res.RoundEnded = r.EndRound()
	}
	return res
}

func (r *Room) ApplyMovement(id string, m Movement) bool {
	p, ok := r.Players[id]
	if !ok {
		return false
	}
	p.X = m.X
	p.Y = m.Y
	p.VelocityX = m.VelocityX
	p.VelocityY = m.VelocityY
	p.FlipX = m.FlipX
	return true
}
