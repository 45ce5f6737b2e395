package service

import (
	"context"
	"encoding/json"
	"learning_path_backend/pkg/logger"
	"learning_path_backend/pkg/monitoring"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32

	DefaultNotificationChannel = "notification_channel"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage 推送给客户端的消息
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Dispatcher 实时推送通道
type Dispatcher interface {
	PushToUsers(userIDs []uint, msg WSMessage)
}

type Client struct {
	Hub    *NotificationHub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint
}

// readPump 只负责心跳和断线检测，客户端上行消息直接丢弃
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// 每个用户一个房间，同一用户可以有多个连接
type shard struct {
	rooms map[uint]map[*Client]struct{}
	mu    sync.RWMutex
}

type NotificationHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	Redis      *redis.Client
	Channel    string
}

// NewNotificationHub rdb 为 nil 时只在本实例内投递
func NewNotificationHub(rdb *redis.Client, channel string) *NotificationHub {
	if channel == "" {
		channel = DefaultNotificationChannel
	}
	h := &NotificationHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		Redis:      rdb,
		Channel:    channel,
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{rooms: make(map[uint]map[*Client]struct{})}
	}
	return h
}

func (h *NotificationHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

type pubSubMessage struct {
	TargetUsers []uint          `json:"targetUsers"`
	Payload     json.RawMessage `json:"payload"`
}

// Run 处理连接注册，并订阅 redis 频道把其他实例发布的消息投递给本地连接
func (h *NotificationHub) Run(ctx context.Context) {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(ctx, h.Channel)
		defer pubsub.Close()
		go func() {
			for msg := range pubsub.Channel() {
				var ps pubSubMessage
				if err := json.Unmarshal([]byte(msg.Payload), &ps); err != nil {
					logger.Log.Error("PubSub unmarshal error", zap.Error(err))
					continue
				}
				h.deliverLocal(ps.TargetUsers, ps.Payload)
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.register:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			room, ok := s.rooms[client.UserID]
			if !ok {
				room = make(map[*Client]struct{})
				s.rooms[client.UserID] = room
			}
			room[client] = struct{}{}
			s.mu.Unlock()
			monitoring.WSOnlineClients.Inc()
		case client := <-h.unregister:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if room, ok := s.rooms[client.UserID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.Send)
					monitoring.WSOnlineClients.Dec()
				}
				if len(room) == 0 {
					delete(s.rooms, client.UserID)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Register 登记连接，hub 已停止时返回 false
func (h *NotificationHub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister 在 hub 停止后直接返回，连接已由 closeAll 关闭
func (h *NotificationHub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *NotificationHub) closeAll() {
	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for userID, room := range s.rooms {
			for client := range room {
				close(client.Send)
				closed++
			}
			delete(s.rooms, userID)
		}
		s.mu.Unlock()
	}
	monitoring.WSOnlineClients.Set(0)
	logger.Log.Info("NotificationHub stopped", zap.Int("closedConnections", closed))
}

// PushToUsers 通过 redis 广播到所有实例；未配置 redis 或发布失败时直接投递本地连接
func (h *NotificationHub) PushToUsers(userIDs []uint, msg WSMessage) {
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("Marshal push message failed", zap.Error(err), zap.String("type", msg.Type))
		return
	}

	if h.Redis != nil {
		payload, _ := json.Marshal(pubSubMessage{TargetUsers: userIDs, Payload: msgBytes})
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		err = h.Redis.Publish(ctx, h.Channel, payload).Err()
		if err == nil {
			return
		}
		logger.Log.Warn("Redis publish failed, delivering locally", zap.Error(err))
	}
	h.deliverLocal(userIDs, msgBytes)
}

func (h *NotificationHub) deliverLocal(userIDs []uint, payload []byte) {
	for _, id := range userIDs {
		s := h.getShard(id)
		s.mu.RLock()
		for client := range s.rooms[id] {
			select {
			case client.Send <- payload:
			default:
				logger.Log.Warn("Client send buffer full, dropping message", zap.Uint("userId", id))
			}
		}
		s.mu.RUnlock()
	}
}

// Online 当前实例上的连接数
func (h *NotificationHub) Online(userID uint) int {
	s := h.getShard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms[userID])
}

func ServeWs(hub *NotificationHub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}
	if !hub.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
