package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/models"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type streamClient struct {
	conn     *websocket.Conn
	district string
}

// AlertHub pushes live alert events to connected dashboards. Clients may
// subscribe to one district or to everything.
type AlertHub struct {
	clients map[*websocket.Conn]streamClient
	mutex   sync.Mutex
}

// NewAlertHub returns an empty hub
func NewAlertHub() *AlertHub {
	return &AlertHub{
		clients: make(map[*websocket.Conn]streamClient),
	}
}

// HandleAlertsWebSocket upgrades the connection and registers the client
func (h *AlertHub) HandleAlertsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorf("WebSocket upgrade error: %v", err)
		return
	}

	district := r.URL.Query().Get("district")

	h.mutex.Lock()
	h.clients[conn] = streamClient{conn: conn, district: district}
	h.mutex.Unlock()
	zap.S().Infof("Client connected to /ws/alerts, district: %q", district)

	conn.SetCloseHandler(func(code int, text string) error {
		h.mutex.Lock()
		delete(h.clients, conn)
		h.mutex.Unlock()
		zap.S().Infof("Client disconnected from /ws/alerts")
		return nil
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
			break
		}
	}
}

// AlertCreated broadcasts a newly created alert
func (h *AlertHub) AlertCreated(alert models.CommunityAlert) {
	h.broadcast("alert_created", alert)
}

// AlertUpdated broadcasts an escalated or refreshed alert
func (h *AlertHub) AlertUpdated(alert models.CommunityAlert) {
	h.broadcast("alert_updated", alert)
}

func (h *AlertHub) broadcast(eventType string, alert models.CommunityAlert) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, client := range h.clients {
		if client.district != "" && client.district != alert.District {
			continue
		}
		err := conn.WriteJSON(map[string]interface{}{
			"event": eventType,
			"data":  alert,
		})
		if err != nil {
			zap.S().Errorf("Error broadcasting %s event: %v", eventType, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
