// Package eventfeed subscribes to a simulation's world-event stream over a
// websocket and pumps decoded events into the dialogue pipeline's entry
// point. Hosts embedding the pipeline in-process do not need it.
package eventfeed

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/ForgottenHistory/talker-core/core/events"
	"github.com/gorilla/websocket"
)

// Handler receives each decoded world event, in stream order.
type Handler func(event events.WorldEvent)

type Feed struct {
	ws *websocket.Conn
	mu sync.Mutex

	closed bool
}

// Connect dials the feed and starts delivering events to the handler. The
// handler runs on the read loop and should hand off long work.
func Connect(url string, handler Handler) (*Feed, error) {
	if handler == nil {
		return nil, fmt.Errorf("event handler not provided")
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to event feed: %w", err)
	}

	feed := &Feed{ws: conn}
	go feed.processIncomingMessages(handler)

	return feed, nil
}

func (f *Feed) processIncomingMessages(handler Handler) {
	for {
		msgType, msg, err := f.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !f.isClosed() {
				log.Printf("Websocket read error: %v", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		var wireMsg wireEvent
		if err := json.Unmarshal(msg, &wireMsg); err != nil {
			log.Printf("Failed to unmarshal feed event: %v", err)
			continue
		}

		handler(wireMsg.toWorldEvent())
	}
}

func (f *Feed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close sends a normal-closure frame and tears the connection down. Repeated
// calls are ignored.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	closeFrame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := f.ws.WriteMessage(websocket.CloseMessage, closeFrame); err != nil {
		if aggressiveCloseErr := f.ws.Close(); aggressiveCloseErr != nil {
			return fmt.Errorf("failed to close websocket: %w", aggressiveCloseErr)
		}
		return nil
	}
	return f.ws.Close()
}

type wireEvent struct {
	Timestamp int64    `json:"timestamp"`
	Witnesses []string `json:"witnesses"`
	Payload   string   `json:"payload"`
	Important bool     `json:"important"`
	Utterance bool     `json:"utterance"`
}

func (w wireEvent) toWorldEvent() events.WorldEvent {
	switch {
	case w.Utterance:
		return events.NewUtterance(w.Timestamp, w.Witnesses, w.Payload)
	case w.Important:
		return events.NewImportantObserved(w.Timestamp, w.Witnesses, w.Payload)
	default:
		return events.NewObserved(w.Timestamp, w.Witnesses, w.Payload)
	}
}
