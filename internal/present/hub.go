package present

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Command is an inbound viewer request. Seeking is the only supported op.
type Command struct {
	Op     string    `json:"op"`
	Frame  int       `json:"frame"`
	Client uuid.UUID `json:"-"`
}

const OpSeek = "seek"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one websocket viewer. Socket I/O runs in its own goroutines;
// the tick goroutine only hands it encoded messages through out.
type client struct {
	id        uuid.UUID
	conn      *websocket.Conn
	out       chan []byte
	closeOnce sync.Once
	closed    atomic.Bool
	log       *zap.Logger
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.out)
		c.conn.Close()
	})
}

// Hub streams view state to connected browsers and relays their seek
// commands to the tick goroutine through a channel.
type Hub struct {
	mu           sync.Mutex
	clients      map[uuid.UUID]*client
	commands     chan Command
	outSize      int
	writeTimeout time.Duration
	log          *zap.Logger
}

func NewHub(outSize int, writeTimeout time.Duration, log *zap.Logger) *Hub {
	if outSize <= 0 {
		outSize = 1
	}
	return &Hub{
		clients:      make(map[uuid.UUID]*client),
		commands:     make(chan Command, 64),
		outSize:      outSize,
		writeTimeout: writeTimeout,
		log:          log,
	}
}

// Commands returns the channel of pending viewer commands.
func (h *Hub) Commands() <-chan Command {
	return h.commands
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast encodes v once and queues it for every client. A client whose
// queue is full is disconnected.
func (h *Hub) Broadcast(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.mu.Lock()
	var slow []*client
	for _, c := range h.clients {
		select {
		case c.out <- data:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()

	for _, c := range slow {
		c.log.Warn("viewer queue full, disconnecting")
		c.close()
	}
	return nil
}

// Handler serves /ws for viewers and /status for a JSON status document.
func (h *Hub) Handler(status func() any) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status()); err != nil {
			h.log.Debug("status encode failed", zap.Error(err))
		}
	})
	return mux
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uuid.UUID]*client)
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	id := uuid.New()
	c := &client{
		id:   id,
		conn: conn,
		out:  make(chan []byte, h.outSize),
		log:  h.log.With(zap.String("viewer", id.String())),
	}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	c.log.Info("viewer connected", zap.String("remote", r.RemoteAddr))

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if h.clients[c.id] == c {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
	c.close()
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				c.log.Debug("viewer read ended", zap.Error(err))
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			c.log.Debug("ignoring malformed command", zap.Error(err))
			continue
		}
		if cmd.Op != OpSeek {
			c.log.Debug("ignoring unknown op", zap.String("op", cmd.Op))
			continue
		}
		cmd.Client = c.id
		select {
		case h.commands <- cmd:
		default:
			c.log.Warn("command queue full, dropping seek", zap.Int("frame", cmd.Frame))
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer h.drop(c)
	for data := range c.out {
		if h.writeTimeout > 0 {
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.log.Debug("viewer write failed", zap.Error(err))
			return
		}
	}
}
