// Package ws implements the websocket chat adapter. Clients connect to
// /ws, identify themselves with a hello frame, and exchange JSON frames:
// slash commands and free-text actions inbound, game messages outbound.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/louisbranch/fableroom/internal/event"
)

// DefaultQueueSize bounds the inbound event queue.
const DefaultQueueSize = 256

// maxDecodeErrorsPerConn drops a connection that keeps sending garbage.
const maxDecodeErrorsPerConn = 5

// Config configures the websocket adapter.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Secret verifies HS256 session tokens. When empty, token checks are
	// disabled and clients declare their own identity in the hello frame.
	Secret []byte
	// Now defaults to time.Now.
	Now func() time.Time
}

// inboundFrame is one client-to-server JSON frame.
type inboundFrame struct {
	Type     string `json:"type"`
	Token    string `json:"token,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Text     string `json:"text,omitempty"`
}

// outboundFrame is one server-to-client JSON frame.
type outboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

type playerConn struct {
	id       string
	playerID string
	mu       sync.Mutex
	encoder  *json.Encoder
}

func (c *playerConn) write(frame outboundFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.encoder.Encode(frame)
}

// Adapter accepts websocket connections and bridges them to the event loop.
type Adapter struct {
	cfg    Config
	inbox  chan event.Event
	server *http.Server

	mu    sync.Mutex
	conns map[string]*playerConn
}

// New creates a websocket adapter listening on cfg.Addr once started.
func New(cfg Config) *Adapter {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	a := &Adapter{
		cfg:   cfg,
		inbox: make(chan event.Event, DefaultQueueSize),
		conns: make(map[string]*playerConn),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/ws", websocket.Handler(a.handleConn))
	a.server = &http.Server{Addr: cfg.Addr, Handler: mux}
	return a
}

// Name identifies the adapter in logs.
func (a *Adapter) Name() string { return "ws" }

// Handler exposes the adapter's HTTP routes for tests and embedding.
func (a *Adapter) Handler() http.Handler { return a.server.Handler }

// Start serves websocket connections until the listener closes.
func (a *Adapter) Start(ctx context.Context) error {
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ws: listener stopped: %v", err)
		}
	}()
	log.Printf("ws: listening on %s", a.cfg.Addr)
	return nil
}

// Stop drains the HTTP server. Open connections are closed.
func (a *Adapter) Stop(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Receive pops the next pending event, or nil when the queue is empty.
func (a *Adapter) Receive() *event.Event {
	select {
	case evt := <-a.inbox:
		return &evt
	default:
		return nil
	}
}

// Send delivers a message to every open connection of the recipient.
func (a *Adapter) Send(msg event.Message) error {
	a.mu.Lock()
	conns := make([]*playerConn, 0, 1)
	for _, conn := range a.conns {
		if conn.playerID == msg.Recipient {
			conns = append(conns, conn)
		}
	}
	a.mu.Unlock()

	for _, conn := range conns {
		if err := conn.write(outboundFrame{Type: "message", Content: msg.Content}); err != nil {
			log.Printf("ws: writing to %s: %v", msg.Recipient, err)
		}
	}
	return nil
}

func (a *Adapter) handleConn(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	decoder := json.NewDecoder(conn)
	pc := &playerConn{id: uuid.NewString(), encoder: json.NewEncoder(conn)}

	who, err := a.handshake(decoder)
	if err != nil {
		log.Printf("ws: conn %s handshake failed: %v", pc.id, err)
		_ = pc.write(outboundFrame{Type: "error", Content: "authentication failed"})
		return
	}
	pc.playerID = who.PlayerID

	a.mu.Lock()
	a.conns[pc.id] = pc
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		delete(a.conns, pc.id)
		a.mu.Unlock()
	}()

	a.push(pc, event.New(event.TypePlayerJoined, event.PlayerJoinedPayload{PlayerID: who.PlayerID, Name: who.Name}))

	decodeErrors := 0
	for {
		var frame inboundFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			_ = pc.write(outboundFrame{Type: "error", Content: "invalid frame"})
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if frame.Type != "input" {
			_ = pc.write(outboundFrame{Type: "error", Content: "unsupported frame type"})
			continue
		}
		evt, err := parseInput(who.PlayerID, who.Name, frame.Text)
		if err != nil {
			_ = pc.write(outboundFrame{Type: "error", Content: err.Error()})
			continue
		}
		a.push(pc, evt)
	}
}

// handshake reads the hello frame and resolves the connection's identity.
func (a *Adapter) handshake(decoder *json.Decoder) (identity, error) {
	var hello inboundFrame
	if err := decoder.Decode(&hello); err != nil {
		return identity{}, err
	}
	if hello.Type != "hello" {
		return identity{}, errors.New("first frame must be hello")
	}

	if len(a.cfg.Secret) > 0 {
		return verifyToken(hello.Token, a.cfg.Secret, a.cfg.Now)
	}

	playerID := hello.PlayerID
	if playerID == "" {
		return identity{}, errors.New("player_id is required")
	}
	name := hello.Name
	if name == "" {
		name = playerID
	}
	return identity{PlayerID: playerID, Name: name}, nil
}

// push queues an event, telling the sender when the host is overloaded.
func (a *Adapter) push(pc *playerConn, evt event.Event) {
	select {
	case a.inbox <- evt:
	default:
		log.Printf("ws: inbox full, dropping %s from %s", evt.Type, pc.playerID)
		_ = pc.write(outboundFrame{Type: "error", Content: "server is busy, try again"})
	}
}
