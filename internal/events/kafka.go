package events

import (
	"context"
	"encoding/json"
	"time"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher buffers order events and writes them to Kafka from a single
// background goroutine. Events are keyed by order ID so one order's events
// stay in partition order.
type KafkaPublisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	logger  zerolog.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, buf int, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		logger:  logger.With().Str("component", "order-events").Logger(),
	}
}

// Start launches the background writer. It drains buffered events on
// context cancellation before closing the underlying writer.
func (p *KafkaPublisher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				close(p.inbox)
				for m := range p.inbox {
					p.write(m)
				}
				_ = p.w.Close()
				close(p.closeCh)
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					close(p.closeCh)
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *KafkaPublisher) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.logger.Error().Err(err).Str("key", string(m.Key)).Msg("failed to publish order event")
	}
}

func (p *KafkaPublisher) OrderCreated(order *model.Order) {
	p.publish(Event{
		Type:       TypeOrderCreated,
		OrderID:    order.ID,
		OwnerID:    order.OwnerID,
		Status:     order.Status,
		Total:      order.Breakdown.Total,
		OccurredAt: time.Now(),
	})
}

func (p *KafkaPublisher) OrderStatusChanged(order *model.Order, previous model.OrderStatus) {
	p.publish(Event{
		Type:       TypeOrderStatusChanged,
		OrderID:    order.ID,
		OwnerID:    order.OwnerID,
		Status:     order.Status,
		Previous:   previous,
		Total:      order.Breakdown.Total,
		OccurredAt: time.Now(),
	})
}

func (p *KafkaPublisher) publish(ev Event) {
	value, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error().Err(err).Str("order_id", ev.OrderID).Msg("failed to marshal order event")
		return
	}

	select {
	case p.inbox <- kafka.Message{Key: []byte(ev.OrderID), Value: value, Time: ev.OccurredAt}:
	default:
		p.logger.Warn().Str("order_id", ev.OrderID).Msg("event buffer full, dropping order event")
	}
}

// Close stops accepting events; the background goroutine flushes what is
// buffered and exits. Stop the publisher either by cancelling Start's
// context or by calling Close, not both.
func (p *KafkaPublisher) Close() { close(p.inbox) }

// WaitClosed blocks until the background goroutine has exited.
func (p *KafkaPublisher) WaitClosed() { <-p.closeCh }
