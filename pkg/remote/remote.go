// Package remote pushes search progress to connected websocket clients: a spectator page or
// a remote dashboard can watch the engine's principal variation deepen in real time without
// polling. It has no bearing on search correctness -- disconnecting every client changes
// nothing about how a move is chosen.
package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/search"
	"github.com/seekerror/logw"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Update is the JSON message shape pushed to every connected client.
type Update struct {
	Depth int      `json:"depth"`
	Score int      `json:"score"`
	Nodes uint64   `json:"nodes"`
	PV    []string `json:"pv"`
	Key   string   `json:"key"` // position key the PV was found for
}

// Hub fans a stream of PVs out to every currently connected websocket client.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan Update
}

// NewHub returns an empty hub. Call ServeHTTP to accept connections and Publish to push PVs.
func NewHub() *Hub {
	return &Hub{clients: map[*client]bool{}}
}

// ServeHTTP upgrades the HTTP request to a websocket and registers the connection until the
// client disconnects or a write to it fails.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logw.Errorf(r.Context(), "websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Update, 16)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return // client disconnected or sent a close frame
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for update := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.WriteJSON(update); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
		_ = c.conn.Close()
	}
	h.mu.Unlock()
}

// Publish pushes one PV to every connected client, dropping it for a client whose send
// buffer is full rather than blocking the search loop.
func (h *Hub) Publish(key string, pv search.PV) {
	update := Update{Depth: pv.Depth, Score: pv.Score, Nodes: pv.Nodes, Key: key}
	for _, m := range pv.Moves {
		update.PV = append(update.PV, m.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- update:
		default:
			// client is too slow; drop this update rather than block the search.
		}
	}
}

// Stream reads from a PV channel (as produced by pkg/search/searchctl.Iterative) and
// publishes each one, until the channel closes or ctx is done.
func (h *Hub) Stream(ctx context.Context, b *board.Board, out <-chan search.PV) {
	key := b.Key()
	for {
		select {
		case pv, ok := <-out:
			if !ok {
				return
			}
			h.Publish(key, pv)
		case <-ctx.Done():
			return
		}
	}
}

// MarshalUpdate is exposed for callers (e.g. tests) that want the wire format without
// standing up a websocket connection.
func MarshalUpdate(u Update) ([]byte, error) {
	return json.Marshal(u)
}
