package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeRewardGranted delivers every reward event to handler. Messages
// that fail to decode or handle are redelivered up to three times.
func (s *Subscriber) SubscribeRewardGranted(ctx context.Context, handler func(ctx context.Context, userID uuid.UUID, r domain.Reward) error) error {
	return s.subscribe(RewardSubjects, "reward-processor", func(data []byte) error {
		var ev RewardGrantedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		return handler(ctx, ev.UserID, ev.Reward)
	})
}

func (s *Subscriber) SubscribeLocationTracked(ctx context.Context, handler func(ctx context.Context, vl domain.VisitedLocation) error) error {
	return s.subscribe(LocationSubjects, "location-processor", func(data []byte) error {
		var vl domain.VisitedLocation
		if err := json.Unmarshal(data, &vl); err != nil {
			return err
		}
		return handler(ctx, vl)
	})
}

func (s *Subscriber) subscribe(subject, durable string, handle func([]byte) error) error {
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handle(msg.Data); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
