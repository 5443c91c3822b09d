// Package progress streams per-outer-iteration solve progress to a
// connected dashboard over a WebSocket: one connection per request, a
// ticker-driven ping keepalive in the write loop, a reader goroutine
// that detects disconnects, and a fanout from an internal broker
// channel into the socket's write side.
package progress

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vrpsolve/internal/heuristics"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// Event is one progress update, JSON-encoded to the socket.
type Event struct {
	SolveID          string `json:"solveId"`
	VehicleRank      int    `json:"vehicleRank"`
	VehiclesDone     int    `json:"vehiclesDone"`
	VehiclesTotal    int    `json:"vehiclesTotal"`
	UnassignedCount  int    `json:"unassignedCount"`
}

// Hub fans out progress events to every currently-connected viewer of
// a given solve id, keyed by solve id rather than by a single
// well-known channel.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[chan Event]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: map[uuid.UUID]map[chan Event]struct{}{}}
}

// Subscribe registers a new viewer channel for solveID.
func (h *Hub) Subscribe(solveID uuid.UUID) chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	if h.subs[solveID] == nil {
		h.subs[solveID] = map[chan Event]struct{}{}
	}
	h.subs[solveID][ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (h *Hub) Unsubscribe(solveID uuid.UUID, ch chan Event) {
	h.mu.Lock()
	if m := h.subs[solveID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(h.subs, solveID)
		}
	}
	h.mu.Unlock()
	close(ch)
}

// Publish fans evt out to every subscriber of solveID, dropping it for
// any viewer whose channel is full rather than blocking the solve.
func (h *Hub) Publish(solveID uuid.UUID, evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[solveID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Reporter returns a heuristics.ProgressFunc that publishes to h under
// solveID, for use as heuristics.WithProgress(hub.Reporter(id)).
func (h *Hub) Reporter(solveID uuid.UUID) heuristics.ProgressFunc {
	return func(vehicleRank, vehiclesDone, vehiclesTotal, unassigned int) {
		h.Publish(solveID, Event{
			SolveID:         solveID.String(),
			VehicleRank:     vehicleRank,
			VehiclesDone:    vehiclesDone,
			VehiclesTotal:   vehiclesTotal,
			UnassignedCount: unassigned,
		})
	}
}

// Handler upgrades the request to a WebSocket and streams solveID's
// progress events until the client disconnects or a write to the
// socket fails.
func (h *Hub) Handler(solveID uuid.UUID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		conn.SetReadLimit(1 << 10)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		ch := h.Subscribe(solveID)
		defer h.Unsubscribe(solveID, ch)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case evt, ok := <-ch:
				if !ok {
					return
				}
				data, _ := json.Marshal(evt)
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
