// internal/api/websocket.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sachasayan/minstrel-sub000/internal/services"
	"github.com/sachasayan/minstrel-sub000/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// local desktop frontend only
		return true
	},
}

// WebSocketClient is one frontend connection subscribed to a project.
type WebSocketClient struct {
	conn        *websocket.Conn
	projectName string
	send        chan []byte
	closed      int32
	lastPing    time.Time
}

// WebSocketManager tracks connections per project and fans out
// document events to them.
type WebSocketManager struct {
	connections map[string]map[*WebSocketClient]struct{} // projectName -> clients
	register    chan *WebSocketClient
	unregister  chan *WebSocketClient
	mutex       sync.RWMutex
	pingTimeout time.Duration
}

var wsManager = &WebSocketManager{
	connections: make(map[string]map[*WebSocketClient]struct{}),
	register:    make(chan *WebSocketClient, 64),
	unregister:  make(chan *WebSocketClient, 64),
	pingTimeout: 60 * time.Second,
}

func init() {
	go wsManager.run()
}

// Close marks the client closed and drops the underlying connection.
// The send channel is closed by the write pump.
func (client *WebSocketClient) Close() {
	if atomic.CompareAndSwapInt32(&client.closed, 0, 1) {
		if client.conn != nil {
			client.conn.Close()
		}
	}
}

// IsClosed reports whether the client has been shut down.
func (client *WebSocketClient) IsClosed() bool {
	return atomic.LoadInt32(&client.closed) == 1
}

func (m *WebSocketManager) run() {
	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			if m.connections[client.projectName] == nil {
				m.connections[client.projectName] = make(map[*WebSocketClient]struct{})
			}
			m.connections[client.projectName][client] = struct{}{}
			m.mutex.Unlock()

		case client := <-m.unregister:
			m.mutex.Lock()
			if clients, ok := m.connections[client.projectName]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					if len(clients) == 0 {
						delete(m.connections, client.projectName)
					}
				}
			}
			m.mutex.Unlock()
			client.Close()
		}
	}
}

// BroadcastToProject sends an event to every client watching a project.
func (m *WebSocketManager) BroadcastToProject(projectName string, event map[string]interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		utils.GetLogger().Error("failed to marshal websocket event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	m.mutex.RLock()
	clients := make([]*WebSocketClient, 0, len(m.connections[projectName]))
	for client := range m.connections[projectName] {
		clients = append(clients, client)
	}
	m.mutex.RUnlock()

	for _, client := range clients {
		if client.IsClosed() {
			continue
		}
		select {
		case client.send <- data:
		default:
			// slow consumer, drop the connection
			m.unregister <- client
		}
	}
}

// BroadcastChapterUpdated notifies watchers that a chapter changed and
// where the highlight ranges land.
func BroadcastChapterUpdated(projectName, chapterID string, chapterIndex int, ranges interface{}) {
	wsManager.BroadcastToProject(projectName, map[string]interface{}{
		"type":          "chapter_updated",
		"project":       projectName,
		"chapter_id":    chapterID,
		"chapter_index": chapterIndex,
		"ranges":        ranges,
	})
}

// incomingMessage is what the frontend sends over the socket.
type incomingMessage struct {
	Type string `json:"type"`
}

// HandleProjectWebSocket upgrades the connection and subscribes it to
// a project's event stream.
func HandleProjectWebSocket(c *gin.Context, projectService *services.ProjectService) {
	projectName := c.Param("name")
	if projectName == "" {
		NewResponseHelper(c).BadRequest("project name is required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Error("websocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := &WebSocketClient{
		conn:        conn,
		projectName: projectName,
		send:        make(chan []byte, 64),
		lastPing:    time.Now(),
	}

	wsManager.register <- client

	go client.writePump()
	go client.readPump(projectService)
}

func (client *WebSocketClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		close(client.send)
		client.Close()
	}()

	for {
		select {
		case data, ok := <-client.send:
			if !ok {
				return
			}
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if client.IsClosed() {
				return
			}
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (client *WebSocketClient) readPump(projectService *services.ProjectService) {
	defer func() {
		wsManager.unregister <- client
	}()

	client.conn.SetReadDeadline(time.Now().Add(wsManager.pingTimeout))
	client.conn.SetPongHandler(func(string) error {
		client.lastPing = time.Now()
		client.conn.SetReadDeadline(time.Now().Add(wsManager.pingTimeout))
		return nil
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg incomingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "dirty":
			// the user started typing, any pending highlight is stale
			projectService.ClearLastEdit()
		}
	}
}
