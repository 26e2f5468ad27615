package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"approval-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Типы событий живой ленты транзакций.
const (
	EventTransactionCreated  = "transactionCreated"
	EventTransactionApproved = "transactionApproved"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Для разработки разрешаем все источники
	},
}

// GlobalFeedHub - единственный экземпляр хаба для всего приложения.
var GlobalFeedHub = NewFeedHub()

// FeedEvent - сообщение, которое уходит подключённым дашбордам.
type FeedEvent struct {
	Type    string             `json:"type"`
	Payload models.Transaction `json:"payload"`
}

type feedClient struct {
	hub    *FeedHub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// FeedHub рассылает события создания и утверждения транзакций
// всем подключённым по websocket пользователям.
// Клиенты хранятся множеством, а не по userID: у пользователя может быть
// несколько вкладок, и отключение одной не должно задевать остальные.
type FeedHub struct {
	clients    map[*feedClient]bool
	broadcast  chan []byte
	register   chan *feedClient
	unregister chan *feedClient
	mu         sync.Mutex
}

func NewFeedHub() *FeedHub {
	return &FeedHub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		clients:    make(map[*feedClient]bool),
	}
}

// Run обслуживает каналы хаба; запускается одной горутиной при старте.
func (h *FeedHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Feed client registered", "user_id", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			slog.Info("Feed client unregistered", "user_id", client.userID)

		case messageData := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- messageData:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent сериализует событие и отправляет его в ленту.
// Вызов не блокирует обработчик запроса: если лента переполнена, событие теряется.
func (h *FeedHub) BroadcastEvent(eventType string, txn models.Transaction) {
	messageBytes, err := json.Marshal(FeedEvent{Type: eventType, Payload: txn})
	if err != nil {
		slog.Error("Failed to marshal feed event", "error", err, "type", eventType)
		return
	}

	select {
	case h.broadcast <- messageBytes:
	default:
		slog.Warn("Feed broadcast channel is full, event dropped", "type", eventType)
	}
}

// FeedWSEndpoint апгрейдит соединение и подключает пользователя к ленте.
func FeedWSEndpoint(c *gin.Context) {
	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade websocket connection", "error", err)
		return
	}

	client := &feedClient{
		hub:    GlobalFeedHub,
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: c.GetUint("user_id"),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *feedClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Клиенты ленты ничего не присылают; читаем только ради обработки закрытия.
func (c *feedClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
