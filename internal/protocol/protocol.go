// Package protocol defines the wire schema: a JSON envelope carrying a named
// event plus a typed payload, in both directions.
package protocol

import "encoding/json"

// Client -> Server events.
const (
	EvtCreateRoom     = "createRoom"
	EvtJoinRoom       = "joinRoom"
	EvtStartGame      = "startGame"
	EvtPlayerMovement = "playerMovement"
	EvtTagPlayer      = "tagPlayer"
)

// Server -> Client events.
const (
	EvtRoomCreated     = "roomCreated"
	EvtRoomJoined      = "roomJoined"
	EvtErrorJoining    = "errorJoining"
	EvtPlayerJoined    = "playerJoined"
	EvtPlayerLeft      = "playerLeft"
	EvtNewHost         = "newHost"
	EvtGameStarted     = "gameStarted"
	EvtGameStartFailed = "gameStartFailed"
	EvtTimerUpdate     = "timerUpdate"
	EvtGameOver        = "gameOver"
	EvtPlayerMoved     = "playerMoved"
	EvtNewTagger       = "newTagger"
)

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServerEvent is an outbound event before marshalling. Data may be any
// JSON-encodable payload, including bare strings and integers (playerLeft,
// newHost, timerUpdate carry scalars).
type ServerEvent struct {
	Event string
	Data  any
}

// ClientEvent is the discriminated union of inbound events. The router
// switches exhaustively over these; unknown shapes never get this far.
type ClientEvent interface{ isClientEvent() }

// CreateRoom carries the room settings. Timer is left at zero when the client
// omits it; the room applies its default duration.
type CreateRoom struct {
	Timer int `json:"timer"`
}

type JoinRoom struct {
	Code string
}

type StartGame struct{}

type Movement struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VelocityX float64 `json:"velocityX"`
	VelocityY float64 `json:"velocityY"`
	FlipX     bool    `json:"flipX"`
}

type Tag struct {
	TargetID string
}

func (CreateRoom) isClientEvent() {}
func (JoinRoom) isClientEvent()   {}
func (StartGame) isClientEvent()  {}
func (Movement) isClientEvent()   {}
func (Tag) isClientEvent()        {}
