// Package events publishes registration events to an AMQP exchange.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/employee"
)

const (
	// DefaultExchange is used when no exchange is configured.
	DefaultExchange = "skillmatch"
	// RegisteredKey is the routing key of the employee registered event.
	RegisteredKey = "employee.registered"
)

// Registered is the payload published after a record is persisted.
type Registered struct {
	Event      string    `json:"event"`
	RunID      string    `json:"run_id"`
	Name       string    `json:"name"`
	Tags       []string  `json:"tags"`
	OccurredAt time.Time `json:"occurred_at"`
}

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends events over a single AMQP channel.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *zap.Logger
	now      func() time.Time
}

// Dial connects to url and declares a durable topic exchange.
func Dial(url, exchange string, logger *zap.Logger) (*Publisher, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("amqp url is required")
	}
	exchange = strings.TrimSpace(exchange)
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}

	p := newPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With(zap.String("exchange", exchange)),
		now:      time.Now,
	}
}

// EmployeeRegistered publishes a Registered event for record.
func (p *Publisher) EmployeeRegistered(ctx context.Context, runID string, record employee.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tags := record.Tags
	if tags == nil {
		tags = []string{}
	}
	body, err := json.Marshal(Registered{
		Event:      RegisteredKey,
		RunID:      runID,
		Name:       record.Name,
		Tags:       tags,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(p.exchange, RegisteredKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    runID,
		Timestamp:    p.now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", RegisteredKey, err)
	}

	p.logger.Debug("event published", zap.String("routing_key", RegisteredKey), zap.String("employee", record.Name))
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
