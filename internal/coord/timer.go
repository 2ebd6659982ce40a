package coord

import (
	"time"

	"go.uber.org/zap"

	"github.com/mgearon/tag-arena-backend/internal/protocol"
)

// roomTimer is the owned handle for a room's countdown goroutine. gen tags
// every tick the goroutine emits; a tick whose gen no longer matches the
// current handle was scheduled before a cancel and is dropped.
type roomTimer struct {
	gen  int
	stop chan struct{}
}

// startRoomTimer begins the 1-second countdown for a room, cancelling any
// stale timer first so at most one is ever live per room.
func (c *Coordinator) startRoomTimer(code string) {
	c.stopRoomTimer(code)
	c.nextGen++
	t := &roomTimer{gen: c.nextGen, stop: make(chan struct{})}
	c.timers[code] = t
	go c.runTimer(code, t)
}

func (c *Coordinator) stopRoomTimer(code string) {
	if t, ok := c.timers[code]; ok {
		close(t.stop)
		delete(c.timers, code)
	}
}

// runTimer posts a roundTick into the coordinator inbox every second until
// stopped. The tick handler does all state mutation; this goroutine never
// touches room state.
func (c *Coordinator) runTimer(code string, t *roomTimer) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-c.ctx.Done():
			return
		case <-ticker.Chan():
			select {
			case c.inbox <- roundTick{Code: code, Gen: t.gen}:
			case <-t.stop:
				return
			case <-c.ctx.Done():
				return
			}
		}
	}
}

func (c *Coordinator) handleTick(msg roundTick) {
	t, ok := c.timers[msg.Code]
	if !ok || t.gen != msg.Gen {
		return // stale fire from a cancelled timer
	}
	room := c.rooms[msg.Code]
	if room == nil || !room.Started {
		c.stopRoomTimer(msg.Code)
		return
	}

	remaining, ended := room.Tick()
	c.broadcast(msg.Code, protocol.ServerEvent{Event: protocol.EvtTimerUpdate, Data: remaining})
	if ended {
		c.stopRoomTimer(msg.Code)
		c.log.Info("round over", zap.String("room", msg.Code))
		c.broadcast(msg.Code, protocol.ServerEvent{Event: protocol.EvtGameOver, Data: protocol.GameOver{}})
	}
}
