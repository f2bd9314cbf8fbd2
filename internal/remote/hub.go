// ABOUTME: WebSocket bridge broadcasting playback state
// ABOUTME: Lets external UIs follow positions without polling the process
package remote

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wavecut/wavecut-go/internal/session"
	"github.com/wavecut/wavecut-go/internal/version"
)

// broadcastInterval is the push cadence for state snapshots.
const broadcastInterval = 100 * time.Millisecond

// PlayerStatus is one engine's state as sent over the wire.
type PlayerStatus struct {
	Source   string `json:"source"`
	State    string `json:"state"`
	Position int64  `json:"position_frames"`
	Length   int64  `json:"length_frames"`
	Error    string `json:"error,omitempty"`
}

// Snapshot is the full broadcast payload.
type Snapshot struct {
	Product string         `json:"product"`
	Version string         `json:"version"`
	Path    string         `json:"path,omitempty"`
	Players []PlayerStatus `json:"players"`
}

// Hub serves /ws and pushes session snapshots to every connected client on a
// fixed cadence. Clients are read only for control frames; a failed write
// drops the client.
type Hub struct {
	sess     *session.Session
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a hub observing the given session.
func NewHub(sess *session.Session) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		sess:     sess,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Run serves the bridge on addr until Stop. Blocks; callers run it on its
// own goroutine.
func (h *Hub) Run(addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.wsHandler()}
	go func() {
		<-h.ctx.Done()
		srv.Close()
	}()
	go h.broadcastLoop()

	log.Printf("Remote bridge listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the bridge down and disconnects all clients.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
}

// wsHandler builds the bridge's HTTP routing.
func (h *Hub) wsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	return mux
}

// handleWS upgrades a client and registers it for broadcasts.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("Remote client connected (%d total)", n)

	// Drain reads so pings and close frames are processed.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcastLoop pushes snapshots on a ticker.
func (h *Hub) broadcastLoop() {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.broadcast(h.snapshot())
		}
	}
}

// snapshot collects both engines' states.
func (h *Hub) snapshot() Snapshot {
	snap := Snapshot{
		Product: version.Product,
		Version: version.Version,
		Path:    h.sess.Path(),
	}
	for _, src := range []session.Source{session.Original, session.Processed} {
		st := PlayerStatus{
			Source: src.String(),
			State:  h.sess.PlaybackState(src).String(),
		}
		if h.sess.Loaded() {
			st.Position = h.sess.Position(src)
			st.Length = h.sess.Frames(src)
		}
		if err := h.sess.PlaybackErr(src); err != nil {
			st.Error = err.Error()
		}
		snap.Players = append(snap.Players, st)
	}
	return snap
}

// broadcast sends one snapshot to every client, dropping dead connections.
func (h *Hub) broadcast(snap Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// drop unregisters a client.
func (h *Hub) drop(conn *websocket.Conn) {
	conn.Close()
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}
