// Package events provides Redis pub/sub progress events for benchmark
// runs, so a watcher can follow a long run from another terminal or host.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event channels
const (
	QueryEventChannel = "spatialbench:query_events"
	RunEventChannel   = "spatialbench:run_events"
)

// Query event types
const (
	QueryFinished = "query_finished"
)

// Run event types
const (
	RunStarted  = "run_started"
	RunFinished = "run_finished"
)

// QueryEvent is published after every completed query attempt group.
type QueryEvent struct {
	Type         string   `json:"type"`
	RunID        string   `json:"run_id"`
	Engine       string   `json:"engine"`
	Query        string   `json:"query"`
	Status       string   `json:"status"`
	TimeSeconds  *float64 `json:"time_seconds,omitempty"`
	RowCount     *int64   `json:"row_count,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Attempts     int      `json:"attempts,omitempty"`
	Timestamp    int64    `json:"time"`
}

// RunEvent marks the start and end of a benchmark run.
type RunEvent struct {
	Type        string   `json:"type"`
	RunID       string   `json:"run_id"`
	Engines     []string `json:"engines,omitempty"`
	Queries     []string `json:"queries,omitempty"`
	ScaleFactor float64  `json:"scale_factor,omitempty"`
	Message     string   `json:"message,omitempty"`
	Timestamp   int64    `json:"time"`
}

// EventHandler handles incoming query events.
type EventHandler interface {
	HandleQueryEvent(ctx context.Context, event QueryEvent) error
}

// Publisher publishes events to Redis.
type Publisher struct {
	redis *redis.Client
}

// NewPublisher creates a new event publisher.
func NewPublisher(redisClient *redis.Client) *Publisher {
	return &Publisher{redis: redisClient}
}

// PublishQueryEvent publishes a query progress event.
func (p *Publisher) PublishQueryEvent(ctx context.Context, event QueryEvent) error {
	event.Timestamp = time.Now().Unix()
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.redis.Publish(ctx, QueryEventChannel, string(data)).Err()
}

// PublishRunEvent publishes a run lifecycle event.
func (p *Publisher) PublishRunEvent(ctx context.Context, event RunEvent) error {
	event.Timestamp = time.Now().Unix()
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.redis.Publish(ctx, RunEventChannel, string(data)).Err()
}

// Subscriber subscribes to Redis channels and dispatches query events.
type Subscriber struct {
	redis    *redis.Client
	handlers []EventHandler
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSubscriber creates a new event subscriber.
func NewSubscriber(redisClient *redis.Client) *Subscriber {
	return &Subscriber{
		redis:    redisClient,
		handlers: make([]EventHandler, 0),
	}
}

// AddHandler adds an event handler.
func (s *Subscriber) AddHandler(handler EventHandler) {
	s.handlers = append(s.handlers, handler)
}

// Start begins listening for events. It blocks until the context ends.
func (s *Subscriber) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	pubsub := s.redis.Subscribe(s.ctx, QueryEventChannel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(s.ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	log.Printf("Subscribed to %s channel", QueryEventChannel)

	ch := pubsub.Channel()
	for {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		case msg := <-ch:
			if msg == nil {
				continue
			}
			if err := s.processMessage(msg); err != nil {
				log.Printf("Error processing message: %v", err)
			}
		}
	}
}

// Stop stops the subscriber.
func (s *Subscriber) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Subscriber) processMessage(msg *redis.Message) error {
	var event QueryEvent
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	for _, handler := range s.handlers {
		if err := handler.HandleQueryEvent(s.ctx, event); err != nil {
			log.Printf("Handler error: %v", err)
		}
	}
	return nil
}
