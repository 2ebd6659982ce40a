// Package ws adapts a websocket connection onto the coordinator: one reader
// loop feeding decoded events into the inbox, one writer goroutine draining
// the client's outbox.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mgearon/tag-arena-backend/internal/coord"
	"github.com/mgearon/tag-arena-backend/internal/game"
	"github.com/mgearon/tag-arena-backend/internal/protocol"
)

const writeTimeout = 3 * time.Second

func Handler(co *coord.Coordinator, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		out := make(chan protocol.ServerEvent, 32)

		co.Inbox() <- coord.Connect{ClientID: clientID, Outbox: out}
		defer func() { co.Inbox() <- coord.Disconnect{ClientID: clientID} }()

		// Writer goroutine: drains the outbox until the coordinator closes it.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ev := range out {
				payload, err := protocol.Encode(ev)
				if err != nil {
					log.Error("encode outbound event", zap.String("event", ev.Event), zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close or not, the deferred Disconnect removes the member.
				return
			}

			evt, err := protocol.DecodeClient(data)
			if err != nil {
				// Unknown or malformed events are ignored, never fatal.
				log.Debug("ignoring client event", zap.String("client", clientID), zap.Error(err))
				continue
			}
			if msg := toCoordMsg(clientID, evt); msg != nil {
				co.Inbox() <- msg
			}
		}
	}
}

func toCoordMsg(clientID string, evt protocol.ClientEvent) coord.Msg {
	switch e := evt.(type) {
	case protocol.CreateRoom:
		return coord.CreateRoom{ClientID: clientID, Timer: e.Timer}
	case protocol.JoinRoom:
		return coord.JoinRoom{ClientID: clientID, Code: e.Code}
	case protocol.StartGame:
		return coord.StartGame{ClientID: clientID}
	case protocol.Movement:
		return coord.Movement{ClientID: clientID, Move: game.Movement{
			X:         e.X,
			Y:         e.Y,
			VelocityX: e.VelocityX,
			VelocityY: e.VelocityY,
			FlipX:     e.FlipX,
		}}
	case protocol.Tag:
		return coord.TagPlayer{ClientID: clientID, TargetID: e.TargetID}
	default:
		return nil
	}
}
