package protocol

import (
	"encoding/json"
	"fmt"
)

// DecodeClient parses an inbound frame into its typed event. Unknown event
// names and malformed payloads are errors; the caller logs and ignores them.
func DecodeClient(data []byte) (ClientEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Event {
	case EvtCreateRoom:
		var e CreateRoom
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &e); err != nil {
				return nil, fmt.Errorf("decode %s: %w", env.Event, err)
			}
		}
		return e, nil

	case EvtJoinRoom:
		// joinRoom carries the room code as a bare string.
		var code string
		if err := json.Unmarshal(env.Data, &code); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return JoinRoom{Code: code}, nil

	case EvtStartGame:
		return StartGame{}, nil

	case EvtPlayerMovement:
		var e Movement
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return e, nil

	case EvtTagPlayer:
		// tagPlayer carries the target connection id as a bare string.
		var target string
		if err := json.Unmarshal(env.Data, &target); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return Tag{TargetID: target}, nil

	default:
		return nil, fmt.Errorf("unknown event %q", env.Event)
	}
}

// Encode marshals an outbound event into an envelope frame.
func Encode(ev ServerEvent) ([]byte, error) {
	var data json.RawMessage
	if ev.Data != nil {
		b, err := json.Marshal(ev.Data)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", ev.Event, err)
		}
		data = b
	}
	return json.Marshal(Envelope{Event: ev.Event, Data: data})
}
