package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"SentiCast/internal/usecase"
	xlogger "SentiCast/pkg/logger"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = (wsPongWait * 9) / 10
	wsSendBuffer   = 8
)

// CatalogEvent is pushed to websocket clients after every catalog swap.
type CatalogEvent struct {
	Event    string    `json:"event"`
	Source   string    `json:"source"`
	Models   []string  `json:"models"`
	Runs     int       `json:"runs"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// CatalogHub notifies connected dashboards that the catalog changed. It
// carries no chart data; clients refetch.
type CatalogHub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func NewCatalogHub(logger *xlogger.Logger, catalog *usecase.CatalogService) *CatalogHub {
	h := &CatalogHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
	if catalog != nil {
		catalog.Subscribe(h.OnSwap)
	}
	return h
}

func (h *CatalogHub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/catalog", h.Serve)
}

// Serve upgrades the request and blocks until the client goes away.
func (h *CatalogHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the error response.
		h.logger.Debug("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	cl := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer)}
	h.add(cl)

	go h.writeLoop(cl)
	h.readLoop(cl)
	return nil
}

// OnSwap broadcasts a catalog_reloaded event. Clients whose buffer is full
// are dropped.
func (h *CatalogHub) OnSwap(snap usecase.Snapshot) {
	ev := CatalogEvent{
		Event:    "catalog_reloaded",
		Source:   snap.Source,
		Models:   snap.Catalog.Models(),
		Runs:     snap.Catalog.Runs(),
		Rows:     len(snap.Catalog.Rows()),
		LoadedAt: snap.LoadedAt,
	}
	b, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encode catalog event failed", xlogger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- b:
		default:
			h.logger.Warn("websocket client too slow, dropping")
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

// Clients returns the number of connected clients.
func (h *CatalogHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Hijacked connections are not closed by
// the HTTP server's shutdown.
func (h *CatalogHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *CatalogHub) add(cl *wsClient) {
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", xlogger.Int("clients", n))
}

func (h *CatalogHub) remove(cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// readLoop discards client frames; it exists to process pongs and notice
// disconnects.
func (h *CatalogHub) readLoop(cl *wsClient) {
	defer func() {
		h.remove(cl)
		_ = cl.conn.Close()
	}()
	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *CatalogHub) writeLoop(cl *wsClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
