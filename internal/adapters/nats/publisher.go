package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	now  func() time.Time
}

// Streams returns the JetStream streams the service relies on.
func Streams() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      "TOURGUIDE_REWARDS",
			Subjects:  []string{RewardSubjects},
			Retention: nats.InterestPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "TOURGUIDE_LOCATIONS",
			Subjects:  []string{LocationSubjects},
			Retention: nats.LimitsPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range Streams() {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js, now: time.Now}, nil
}

func (p *Publisher) PublishRewardGranted(ctx context.Context, userID uuid.UUID, r domain.Reward) error {
	data, err := json.Marshal(RewardGrantedEvent{UserID: userID, Reward: r, GrantedAt: p.now().UTC()})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(RewardSubject(userID), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishLocationTracked(ctx context.Context, vl domain.VisitedLocation) error {
	data, err := json.Marshal(vl)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(LocationSubject(vl.UserID), data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for core NATS subscribers.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("tourguide"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
