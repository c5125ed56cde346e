package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/tourguide/internal/adapters/nats"
	"github.com/samirrijal/tourguide/internal/pkg/metrics"
)

const wsPingInterval = 30 * time.Second

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action   string `json:"action"`    // "subscribe" | "unsubscribe"
	UserName string `json:"user_name"` // traveler filter (optional, "" = all)
	Channel  string `json:"channel"`   // "rewards" | "locations" (default: rewards)
}

// resolveSubject maps a client request onto a NATS subject.
func resolveSubject(ctx context.Context, deps *Dependencies, m wsMessage) (string, error) {
	channel := m.Channel
	if channel == "" {
		channel = "rewards"
	}

	if m.UserName == "" {
		switch channel {
		case "rewards":
			return natsadapter.RewardSubjects, nil
		case "locations":
			return natsadapter.LocationSubjects, nil
		}
		return "", errUnknownChannel(channel)
	}

	t, err := deps.TourGuide.GetTraveler(ctx, m.UserName)
	if err != nil {
		return "", err
	}
	switch channel {
	case "rewards":
		return natsadapter.RewardSubject(t.ID), nil
	case "locations":
		return natsadapter.LocationSubject(t.ID), nil
	}
	return "", errUnknownChannel(channel)
}

type errUnknownChannel string

func (e errUnknownChannel) Error() string { return "unknown channel: " + string(e) }

// WebSocketHandler returns a handler that relays reward and location events
// from NATS to connected clients.
// Clients send JSON: {"action":"subscribe","user_name":"internalUser1","channel":"rewards"}
// The connection starts subscribed to the rewards of ?user=<name>, or to
// every reward when no user is given.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		log := slog.With("remote", c.RemoteAddr().String())
		log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		if deps.NATS == nil {
			_ = c.WriteJSON(map[string]string{"error": "event stream not configured"})
			return
		}

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(m wsMessage) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			subject, err := resolveSubject(ctx, deps, m)
			cancel()
			if err != nil {
				_ = writeJSON(map[string]string{"error": err.Error()})
				return
			}
			if _, exists := subs[subject]; exists {
				_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
				return
			}
			s, err := deps.NATS.Subscribe(subject, func(msg *nats.Msg) {
				_ = writeJSON(json.RawMessage(msg.Data))
			})
			if err != nil {
				_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
				return
			}
			subs[subject] = s
			_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})
		}

		subscribe(wsMessage{Action: "subscribe", UserName: c.Query("user")})

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "subscribe":
				subscribe(m)
			case "unsubscribe":
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				subject, err := resolveSubject(ctx, deps, m)
				cancel()
				if err != nil {
					_ = writeJSON(map[string]string{"error": err.Error()})
					continue
				}
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}
			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		log.Info("ws client disconnected")
	}
}
