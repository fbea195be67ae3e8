package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"storefront/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

// Hub fans order notifications out to every connected websocket client.
// Messages sent by clients are read and dropped.
type Hub struct {
	clients   map[*websocket.Conn]bool
	mutex     sync.Mutex
	broadcast chan []byte
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

// NewHub accepts connections from allowedOrigin only; "*" allows any
// origin. Requests without an Origin header are always accepted.
func NewHub(allowedOrigin string, log zerolog.Logger) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 100),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
		log: log,
	}
}

// Run delivers broadcasts until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return
		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				client.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Warn().Err(err).Str("remote", client.RemoteAddr().String()).Msg("websocket write failed")
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// PublishOrderCreated queues the event for broadcast. It never blocks; when
// the queue is full the event is dropped.
func (h *Hub) PublishOrderCreated(_ context.Context, order *models.Order) error {
	message, err := NewOrderCreated(order).Encode()
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- message:
	default:
		h.log.Warn().Uint("order_id", order.ID).Msg("websocket broadcast queue full, dropping event")
	}
	return nil
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) Handler() fiber.Handler {
	return adaptor.HTTPHandlerFunc(h.ServeHTTP)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn().Err(err).Msg("websocket read failed")
			}
			break
		}
	}

	h.mutex.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mutex.Unlock()
	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client disconnected")
}
