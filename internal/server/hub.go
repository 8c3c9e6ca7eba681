package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/observability"
)

// SampleMessage is the JSON frame sent to WebSocket clients for each
// equity curve sample of a streaming run.
type SampleMessage struct {
	Type            string  `json:"type"`
	RunID           string  `json:"run_id"`
	Date            string  `json:"date"`
	SpotPrice       float64 `json:"spot_price"`
	Cash            float64 `json:"cash"`
	StockValue      float64 `json:"stock_value"`
	OptionLiability float64 `json:"option_liability"`
	PremiumRealized float64 `json:"premium_realized"`
	Equity          float64 `json:"equity"`
}

// Hub manages WebSocket connections and broadcasts equity samples to all
// connected clients while a backtest run streams.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
	logger     *log.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
}

// Run starts the hub's main event loop. Must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			n := len(h.clients)
			h.mu.Unlock()
			observability.DefaultMetrics.WSClientsConnected.Set(float64(n))
			h.logger.Printf("ws client connected (total %d)", n)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			observability.DefaultMetrics.WSClientsConnected.Set(float64(n))

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastSample sends one equity curve sample to all connected clients.
func (h *Hub) BroadcastSample(sample *domain.EquityCurveSample) {
	msg := SampleMessage{
		Type:            "equity_sample",
		RunID:           sample.RunID,
		Date:            sample.Date.Format("2006-01-02"),
		SpotPrice:       sample.SpotPrice,
		Cash:            sample.Cash,
		StockValue:      sample.StockValue,
		OptionLiability: sample.OptionLiability,
		PremiumRealized: sample.PremiumRealized,
		Equity:          sample.Equity,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- data:
		observability.DefaultMetrics.WSSamplesBroadcast.Inc()
	default:
		// Drop if buffer full to avoid blocking the run.
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// HandleWS handles WebSocket upgrade requests at GET /ws.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("ws upgrade failed: %v", err)
		return
	}

	h.register <- conn

	// Read pump: keep connection alive and detect disconnects.
	go func() {
		defer func() { h.unregister <- conn }()
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	// Ping ticker to keep connection alive through proxies.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			h.mu.RLock()
			_, ok := h.clients[conn]
			h.mu.RUnlock()
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()
}
