package http

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Event is one message on the dashboard events feed.
type Event struct {
	Type string `json:"type"`
}

// EventsHub fans catalog-change events out to connected dashboards so they
// can refetch. Slow clients have their stale event dropped rather than
// blocking the broadcast.
type EventsHub struct {
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[chan Event]struct{}
}

func NewEventsHub() *EventsHub {
	return &EventsHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subscribers: make(map[chan Event]struct{}),
	}
}

// CatalogChanged implements app.Notifier.
func (h *EventsHub) CatalogChanged() {
	h.broadcast(Event{Type: "catalogChanged"})
}

func (h *EventsHub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

func (h *EventsHub) subscribe() (chan Event, func()) {
	ch := make(chan Event, 8)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// ServeWS upgrades the connection and streams events until the client hangs up.
func (h *EventsHub) ServeWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return nil
	}
	defer conn.Close()

	events, cancel := h.subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain reads to notice the client disconnecting.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("ws write error: %v", err)
				return nil
			}
		case <-done:
			return nil
		}
	}
}
