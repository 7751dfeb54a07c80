package superski

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const sendBuffer = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type hubConn struct {
	ID   string
	ws   *websocket.Conn
	send chan []byte
}

// TelemetryHub pushes every telemetry frame to the connected websockets.
// Slow clients drop frames instead of stalling the simulation.
type TelemetryHub struct {
	mu    sync.Mutex
	conns map[string]*hubConn
}

func NewTelemetryHub() *TelemetryHub {
	return &TelemetryHub{conns: map[string]*hubConn{}}
}

func (h *TelemetryHub) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/telemetry", h.HandleTelemetry)
	return r
}

func (h *TelemetryHub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]int{"clients": h.Len()}); err != nil {
		log.WithError(err).Warn("Error writing health")
	}
}

func (h *TelemetryHub) HandleTelemetry(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Error upgrading connection")
		return
	}
	c := &hubConn{ID: uuid.New().String(), ws: ws, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.conns[c.ID] = c
	h.mu.Unlock()
	log.WithField("conn", c.ID).Info("Telemetry client connected")

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *TelemetryHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *TelemetryHub) Broadcast(t Telemetry) {
	data, err := json.Marshal(t)
	if err != nil {
		log.WithError(err).Error("Unable to marshal telemetry")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.conns {
		select {
		case c.send <- data:
		default:
			log.WithField("conn", c.ID).Debug("Dropped telemetry frame")
		}
	}
}

func (h *TelemetryHub) remove(c *hubConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c.ID]; !ok {
		return
	}
	delete(h.conns, c.ID)
	close(c.send)
	log.WithField("conn", c.ID).Info("Telemetry client disconnected")
}

// readLoop only watches for the close; clients never send anything we use.
func (h *TelemetryHub) readLoop(c *hubConn) {
	defer h.remove(c)
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).WithField("conn", c.ID).Debug("Telemetry read failed")
			}
			return
		}
	}
}

func (h *TelemetryHub) writeLoop(c *hubConn) {
	defer c.ws.Close()
	for data := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
			log.WithError(err).WithField("conn", c.ID).Debug("Telemetry write failed")
			h.remove(c)
			return
		}
	}
}
