// Package coord owns all session state: the connection registry, the room
// store with its playerRooms index, and the per-room round timers. Every
// mutation flows through one goroutine's inbox, so handlers may read-then-write
// shared state without locks and no two handlers for the same room interleave.
package coord

import (
	"context"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/mgearon/tag-arena-backend/internal/codes"
	"github.com/mgearon/tag-arena-backend/internal/game"
	"github.com/mgearon/tag-arena-backend/internal/protocol"
)

type Options struct {
	Clock  clockwork.Clock // nil means the real clock
	Rand   *rand.Rand      // nil means time-seeded
	Logger *zap.Logger     // nil means no-op
}

type Coordinator struct {
	inbox       chan Msg
	rooms       map[string]*game.Room
	playerRooms map[string]string
	conns       map[string]chan protocol.ServerEvent
	timers      map[string]*roomTimer
	nextGen     int

	clock  clockwork.Clock
	rng    *rand.Rand
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, opts Options) *Coordinator {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	c := &Coordinator{
		inbox:       make(chan Msg, 256),
		rooms:       make(map[string]*game.Room),
		playerRooms: make(map[string]string),
		conns:       make(map[string]chan protocol.ServerEvent),
		timers:      make(map[string]*roomTimer),
		clock:       opts.Clock,
		rng:         opts.Rand,
		log:         opts.Logger,
		ctx:         ctx,
		cancel:      cancel,
	}
	go c.loop()
	return c
}

func (c *Coordinator) Inbox() chan<- Msg { return c.inbox }

func (c *Coordinator) loop() {
	for {
		select {
		case <-c.ctx.Done():
			c.shutdown()
			return

		case m := <-c.inbox:
			switch msg := m.(type) {
			case Connect:
				c.conns[msg.ClientID] = msg.Outbox
				c.log.Info("player connected", zap.String("client", msg.ClientID))

			case Disconnect:
				c.log.Info("player disconnected", zap.String("client", msg.ClientID))
				c.dropClient(msg.ClientID)

			case CreateRoom:
				c.handleCreateRoom(msg)

			case JoinRoom:
				c.handleJoinRoom(msg)

			case StartGame:
				c.handleStartGame(msg)

			case Movement:
				c.handleMovement(msg)

			case TagPlayer:
				c.handleTag(msg)

			case roundTick:
				c.handleTick(msg)

			case GetView:
				msg.Reply <- c.view()

			case Shutdown:
				c.shutdown()
				return
			}
		}
	}
}

func (c *Coordinator) handleCreateRoom(msg CreateRoom) {
	if _, ok := c.playerRooms[msg.ClientID]; ok {
		c.log.Warn("createRoom ignored: already in a room", zap.String("client", msg.ClientID))
		return
	}
	code, err := codes.Allocate(c.rng, func(code string) bool {
		_, ok := c.rooms[code]
		return ok
	})
	if err != nil {
		c.log.Error("room code allocation failed", zap.Error(err))
		c.send(msg.ClientID, protocol.ServerEvent{Event: protocol.EvtErrorJoining, Data: "Could not create room."})
		return
	}

	room := game.NewRoom(code, msg.ClientID, game.Settings{Timer: msg.Timer})
	c.rooms[code] = room
	c.playerRooms[msg.ClientID] = code
	c.log.Info("room created", zap.String("room", code), zap.String("host", msg.ClientID))

	c.send(msg.ClientID, protocol.ServerEvent{Event: protocol.EvtRoomCreated, Data: protocol.RoomCreated{
		RoomCode: code,
		Players:  snapshotPlayers(room),
		HostID:   room.HostID,
		Settings: protocol.RoomSettings{Timer: room.Settings.Timer},
	}})
}

func (c *Coordinator) handleJoinRoom(msg JoinRoom) {
	if _, ok := c.playerRooms[msg.ClientID]; ok {
		c.log.Warn("joinRoom ignored: already in a room", zap.String("client", msg.ClientID))
		return
	}
	room, ok := c.rooms[msg.Code]
	if !ok {
		c.log.Info("join failed: room not found", zap.String("room", msg.Code), zap.String("client", msg.ClientID))
		c.send(msg.ClientID, protocol.ServerEvent{Event: protocol.EvtErrorJoining, Data: "Room not found."})
		return
	}
	p, err := room.AddPlayer(msg.ClientID)
	if err != nil {
		c.log.Info("join failed: room full", zap.String("room", msg.Code), zap.String("client", msg.ClientID))
		c.send(msg.ClientID, protocol.ServerEvent{Event: protocol.EvtErrorJoining, Data: "Room is full."})
		return
	}
	c.playerRooms[msg.ClientID] = msg.Code
	c.log.Info("player joined room", zap.String("room", msg.Code), zap.String("client", msg.ClientID))

	var taggerID *string
	if room.TaggerID != "" {
		t := room.TaggerID
		taggerID = &t
	}
	c.send(msg.ClientID, protocol.ServerEvent{Event: protocol.EvtRoomJoined, Data: protocol.RoomJoined{
		RoomCode:    msg.Code,
		Players:     snapshotPlayers(room),
		HostID:      room.HostID,
		Settings:    protocol.RoomSettings{Timer: room.Settings.Timer},
		TaggerID:    taggerID,
		GameStarted: room.Started,
	}})
	c.broadcastExcept(msg.Code, msg.ClientID, protocol.ServerEvent{Event: protocol.EvtPlayerJoined, Data: snapshotPlayer(p)})
}

func (c *Coordinator) handleStartGame(msg StartGame) {
	code, ok := c.playerRooms[msg.ClientID]
	if !ok {
		return
	}
	room := c.rooms[code]
	if room == nil {
		return
	}
	taggerID, err := room.StartRound(msg.ClientID, c.rng.Intn)
	if err != nil {
		c.log.Info("start game failed",
			zap.String("room", code), zap.String("client", msg.ClientID), zap.Error(err))
		c.send(msg.ClientID, protocol.ServerEvent{Event: protocol.EvtGameStartFailed, Data: startFailReason(err)})
		return
	}
	c.log.Info("game starting", zap.String("room", code), zap.String("tagger", taggerID))

	c.broadcast(code, protocol.ServerEvent{Event: protocol.EvtGameStarted, Data: protocol.GameStarted{
		TaggerID:  taggerID,
		StartTime: c.clock.Now().UnixMilli(),
		Duration:  room.Settings.Timer,
	}})
	c.startRoomTimer(code)
}

func startFailReason(err error) string {
	switch err {
	case game.ErrNotHost:
		return "Only the host can start the game."
	case game.ErrRoundActive:
		return "Game already running."
	case game.ErrNoPlayers:
		return "Not enough players to start."
	default:
		return "Could not start the game."
	}
}

func (c *Coordinator) handleMovement(msg Movement) {
	code, ok := c.playerRooms[msg.ClientID]
	if !ok {
		return
	}
	room := c.rooms[code]
	if room == nil || !room.ApplyMovement(msg.ClientID, msg.Move) {
		return
	}
	c.broadcastExcept(code, msg.ClientID, protocol.ServerEvent{Event: protocol.EvtPlayerMoved, Data: protocol.PlayerMoved{
		ID:        msg.ClientID,
		X:         msg.Move.X,
		Y:         msg.Move.Y,
		VelocityX: msg.Move.VelocityX,
		VelocityY: msg.Move.VelocityY,
		FlipX:     msg.Move.FlipX,
	}})
}

func (c *Coordinator) handleTag(msg TagPlayer) {
	code, ok := c.playerRooms[msg.ClientID]
	if !ok {
		c.log.Debug("tag ignored: sender not in a room", zap.String("client", msg.ClientID))
		return
	}
	room := c.rooms[code]
	if room == nil {
		return
	}
	res, err := room.ApplyTag(msg.ClientID, msg.TargetID, c.clock.Now())
	if err != nil {
		c.log.Debug("tag ignored",
			zap.String("room", code),
			zap.String("sender", msg.ClientID),
			zap.String("target", msg.TargetID),
			zap.Error(err))
		return
	}
	c.log.Info("tag processed",
		zap.String("room", code),
		zap.String("oldTagger", res.OldTaggerID),
		zap.String("newTagger", res.NewTaggerID))
	c.broadcast(code, protocol.ServerEvent{Event: protocol.EvtNewTagger, Data: protocol.NewTagger{
		NewTaggerID: res.NewTaggerID,
		OldTaggerID: res.OldTaggerID,
	}})
}

// removeMember takes a connection out of its room, maintaining the
// playerRooms index, host succession, room destruction, and the
// under-two-players force-end in one handler invocation.
func (c *Coordinator) removeMember(clientID string) {
	code, ok := c.playerRooms[clientID]
	if !ok {
		return
	}
	delete(c.playerRooms, clientID)
	room := c.rooms[code]
	if room == nil {
		return
	}

	res := room.RemovePlayer(clientID)
	if !res.Removed {
		return
	}
	c.broadcast(code, protocol.ServerEvent{Event: protocol.EvtPlayerLeft, Data: clientID})

	if res.Empty {
		c.stopRoomTimer(code)
		delete(c.rooms, code)
		c.log.Info("room empty, deleting", zap.String("room", code))
		return
	}
	if res.NewHostID != "" {
		c.log.Info("host left, promoting", zap.String("room", code), zap.String("newHost", res.NewHostID))
		c.broadcast(code, protocol.ServerEvent{Event: protocol.EvtNewHost, Data: res.NewHostID})
	}
	if res.RoundEnded {
		c.stopRoomTimer(code)
		c.log.Info("ending round: not enough players", zap.String("room", code))
		c.broadcast(code, protocol.ServerEvent{Event: protocol.EvtGameOver, Data: protocol.GameOver{Reason: "Not enough players"}})
	}
}

// send delivers to one client, reporting false when the client is unknown or
// its outbox is full.
func (c *Coordinator) send(clientID string, ev protocol.ServerEvent) bool {
	out, ok := c.conns[clientID]
	if !ok {
		return false
	}
	select {
	case out <- ev:
		return true
	default:
		return false
	}
}

func (c *Coordinator) broadcast(code string, ev protocol.ServerEvent) {
	c.broadcastExcept(code, "", ev)
}

func (c *Coordinator) broadcastExcept(code, exceptID string, ev protocol.ServerEvent) {
	room := c.rooms[code]
	if room == nil {
		return
	}
	var failed []string
	for _, id := range room.MemberIDs() {
		if id == exceptID {
			continue
		}
		if !c.send(id, ev) {
			failed = append(failed, id)
		}
	}
	// A full outbox means a dead or hopelessly slow client; treat it as a
	// disconnect so the room does not stall on it.
	for _, id := range failed {
		c.log.Warn("dropping unresponsive client", zap.String("client", id))
		c.dropClient(id)
	}
}

func (c *Coordinator) dropClient(clientID string) {
	if out, ok := c.conns[clientID]; ok {
		delete(c.conns, clientID)
		close(out)
	}
	c.removeMember(clientID)
}

func (c *Coordinator) shutdown() {
	for code := range c.timers {
		c.stopRoomTimer(code)
	}
	for id, out := range c.conns {
		close(out)
		delete(c.conns, id)
	}
	c.cancel()
}

func (c *Coordinator) view() View {
	v := View{
		Rooms:       make(map[string]RoomView, len(c.rooms)),
		PlayerRooms: make(map[string]string, len(c.playerRooms)),
		NumConns:    len(c.conns),
		NumTimers:   len(c.timers),
	}
	for code, room := range c.rooms {
		_, running := c.timers[code]
		v.Rooms[code] = RoomView{
			Members:      room.MemberIDs(),
			HostID:       room.HostID,
			TaggerID:     room.TaggerID,
			Started:      room.Started,
			Remaining:    room.Remaining,
			TimerRunning: running,
		}
	}
	for id, code := range c.playerRooms {
		v.PlayerRooms[id] = code
	}
	return v
}

func snapshotPlayer(p *game.Player) protocol.PlayerSnapshot {
	return protocol.PlayerSnapshot{
		ID:        p.ID,
		X:         p.X,
		Y:         p.Y,
		VelocityX: p.VelocityX,
		VelocityY: p.VelocityY,
		FlipX:     p.FlipX,
		IsTagger:  p.IsTagger,
	}
}

func snapshotPlayers(room *game.Room) map[string]protocol.PlayerSnapshot {
	out := make(map[string]protocol.PlayerSnapshot, room.Len())
	for _, id := range room.MemberIDs() {
		out[id] = snapshotPlayer(room.Players[id])
	}
	return out
}
