package protocol

// Outbound payload shapes. Field names match the original client contract.

type PlayerSnapshot struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VelocityX float64 `json:"velocityX"`
	VelocityY float64 `json:"velocityY"`
	FlipX     bool    `json:"flipX"`
	IsTagger  bool    `json:"isTagger"`
}

type RoomSettings struct {
	Timer int `json:"timer"`
}

type RoomCreated struct {
	RoomCode string                    `json:"roomCode"`
	Players  map[string]PlayerSnapshot `json:"players"`
	HostID   string                    `json:"hostId"`
	Settings RoomSettings              `json:"settings"`
}

type RoomJoined struct {
	RoomCode    string                    `json:"roomCode"`
	Players     map[string]PlayerSnapshot `json:"players"`
	HostID      string                    `json:"hostId"`
	Settings    RoomSettings              `json:"settings"`
	TaggerID    *string                   `json:"taggerId"` // null when no round is active
	GameStarted bool                      `json:"gameStarted"`
}

type GameStarted struct {
	TaggerID  string `json:"taggerId"`
	StartTime int64  `json:"startTime"` // unix milliseconds
	Duration  int    `json:"duration"`  // seconds
}

type GameOver struct {
	Reason string `json:"reason,omitempty"` // omitted on natural expiry
}

type PlayerMoved struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VelocityX float64 `json:"velocityX"`
	VelocityY float64 `json:"velocityY"`
	FlipX     bool    `json:"flipX"`
}

type NewTagger struct {
	NewTaggerID string `json:"newTaggerId"`
	OldTaggerID string `json:"oldTaggerId"`
}
