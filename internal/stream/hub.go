package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans command payloads out to websocket clients grouped by channel.
// With redis configured, payloads are also published so clients attached to
// other instances receive them.
type Hub struct {
	redis   *redis.Client
	origin  string
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	cancel  context.CancelFunc
}

type Client struct {
	Channel string
	Send    chan []byte
}

type envelope struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		origin:  uuid.NewString(),
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		pubsub := redisClient.PSubscribe(ctx, redisPattern)
		go h.forwardRedis(ctx, pubsub)
	}
	return h
}

func (h *Hub) Register(channel string) *Client {
	client := &Client{
		Channel: channel,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[channel] == nil {
		h.clients[channel] = map[*Client]struct{}{}
	}
	h.clients[channel][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if channelClients, ok := h.clients[client.Channel]; ok {
		delete(channelClients, client)
		if len(channelClients) == 0 {
			delete(h.clients, client.Channel)
		}
	}
	close(client.Send)
}

// Broadcast delivers payload to local clients and, when redis is configured,
// to every other instance. Payload must be JSON.
func (h *Hub) Broadcast(channel string, payload []byte) {
	h.deliver(channel, payload)

	if h.redis != nil {
		msg, err := json.Marshal(envelope{Origin: h.origin, Payload: payload})
		if err != nil {
			log.Printf("stream envelope encode error: %v", err)
			return
		}
		if err := h.redis.Publish(context.Background(), redisChannel(channel), msg).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) Close() {
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *Hub) deliver(channel string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[channel] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) forwardRedis(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil || env.Origin == h.origin {
				continue
			}
			h.deliver(channelFromRedis(msg.Channel), env.Payload)
		}
	}
}

const (
	redisPrefix  = "mapty:"
	redisSuffix  = ":commands"
	redisPattern = redisPrefix + "*" + redisSuffix
)

func redisChannel(channel string) string {
	return redisPrefix + channel + redisSuffix
}

func channelFromRedis(ch string) string {
	// mapty:{channel}:commands
	if len(ch) <= len(redisPrefix)+len(redisSuffix) {
		return ""
	}
	return ch[len(redisPrefix) : len(ch)-len(redisSuffix)]
}
