package coord

import (
	"github.com/mgearon/tag-arena-backend/internal/game"
	"github.com/mgearon/tag-arena-backend/internal/protocol"
)

type Msg interface{ isCoordMsg() }

// Connect registers a live connection and the outbox its frames are written to.
type Connect struct {
	ClientID string
	Outbox   chan protocol.ServerEvent
}

// Disconnect is posted by the transport on connection close and always
// triggers member removal.
type Disconnect struct {
	ClientID string
}

type CreateRoom struct {
	ClientID string
	Timer    int // seconds; zero means default
}

type JoinRoom struct {
	ClientID string
	Code     string
}

type StartGame struct {
	ClientID string
}

type Movement struct {
	ClientID string
	Move     game.Movement
}

type TagPlayer struct {
	ClientID string
	TargetID string
}

// roundTick is posted by a room's countdown goroutine. Ticks ride the same
// inbox as client events, so they serialize with roster mutations.
type roundTick struct {
	Code string
	Gen  int
}

// GetView reflects internal state without data races. Test-only.
type GetView struct {
	Reply chan View
}

type Shutdown struct{}

func (Connect) isCoordMsg()    {}
func (Disconnect) isCoordMsg() {}
func (CreateRoom) isCoordMsg() {}
func (JoinRoom) isCoordMsg()   {}
func (StartGame) isCoordMsg()  {}
func (Movement) isCoordMsg()   {}
func (TagPlayer) isCoordMsg()  {}
func (roundTick) isCoordMsg()  {}
func (GetView) isCoordMsg()    {}
func (Shutdown) isCoordMsg()   {}

type RoomView struct {
	Members      []string
	HostID       string
	TaggerID     string
	Started      bool
	Remaining    int
	TimerRunning bool
}

type View struct {
	Rooms       map[string]RoomView
	PlayerRooms map[string]string
	NumConns    int
	NumTimers   int
}
