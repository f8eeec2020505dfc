package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	subjectPrefix = "socialape"
	queueGroup    = "socialape-engine"
)

// NATSBus implements Bus on a NATS connection. Events are JSON-encoded on
// subjects of the form socialape.<collection>.<kind>; subscribers join one
// queue group so each event is handled by a single engine instance.
type NATSBus struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NATSConfig holds connection settings for the NATS bus.
type NATSConfig struct {
	URL           string
	ClientName    string
	MaxReconnects int
	ReconnectWait time.Duration
}

// NewNATSBus connects to NATS and returns a bus over the connection.
func NewNATSBus(cfg NATSConfig, logger *zap.Logger) (*NATSBus, error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("nats connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("connected to nats", zap.String("url", nc.ConnectedUrl()))
	return &NATSBus{conn: nc, logger: logger}, nil
}

func subject(collection string, kind Kind) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, collection, kind)
}

// Publish sends the event to its collection/kind subject.
func (b *NATSBus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.conn.Publish(subject(event.Collection, event.Kind), payload); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe registers a queue subscription for one collection/kind pair.
func (b *NATSBus) Subscribe(collection string, kind Kind, handler Handler) error {
	subj := subject(collection, kind)
	_, err := b.conn.QueueSubscribe(subj, queueGroup, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			b.logger.Error("failed to decode event", zap.String("subject", subj), zap.Error(err))
			return
		}
		handler(context.Background(), event)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subj, err)
	}

	b.logger.Info("queue subscribed", zap.String("subject", subj), zap.String("queue", queueGroup))
	return nil
}

// Close drains the underlying connection.
func (b *NATSBus) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}
