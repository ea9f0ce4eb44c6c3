// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

// BusConfig holds router and pub/sub settings.
type BusConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// BufferSize is the per-subscriber output channel buffer.
	BufferSize int64
}

// DefaultBusConfig returns production defaults.
func DefaultBusConfig() *BusConfig {
	return &BusConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
		BufferSize:           64,
	}
}

// Bus is an in-process publisher plus a router that dispatches to handlers.
// Handlers must be added before Serve starts the router.
type Bus struct {
	pubSub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter
	closed atomic.Bool
}

// NewBus creates the pub/sub and router. Router middleware, outermost first:
//   - CorrelationID: copy the correlation id to produced messages
//   - PoisonQueue: hand messages that exhausted their retries to TopicPoison
//   - Retry: exponential backoff for handler errors
//   - Recoverer: turn handler panics into errors
func NewBus(cfg *BusConfig) (*Bus, error) {
	if cfg == nil {
		cfg = DefaultBusConfig()
	}
	logger := newZerologAdapter()

	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		_ = pubSub.Close()
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	poisonQueue, err := middleware.PoisonQueue(pubSub, TopicPoison)
	if err != nil {
		_ = pubSub.Close()
		return nil, fmt.Errorf("create poison queue middleware: %w", err)
	}

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		poisonQueue,
		retry.Middleware,
		middleware.Recoverer,
	)

	b := &Bus{
		pubSub: pubSub,
		router: router,
		logger: logger,
	}
	b.AddConsumerHandler("poison-logger", TopicPoison, b.logPoisoned)
	return b, nil
}

// AddConsumerHandler subscribes handler to topic. Each invocation is counted
// in the events_handled_total metric.
func (b *Bus) AddConsumerHandler(name, topic string, handler message.NoPublishHandlerFunc) {
	b.router.AddConsumerHandler(name, topic, b.pubSub, func(msg *message.Message) error {
		err := handler(msg)
		metrics.RecordEventHandled(name, err)
		return err
	})
}

// Publish encodes event as JSON and publishes it on topic. The correlation id
// of ctx travels in the message metadata.
func (b *Bus) Publish(ctx context.Context, topic string, event interface{}) error {
	if b.closed.Load() {
		return ErrBusClosed
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	correlationID := logging.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = logging.RequestIDFromContext(ctx)
	}
	if correlationID != "" {
		middleware.SetCorrelationID(correlationID, msg)
	}

	err = b.pubSub.Publish(topic, msg)
	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// NotifyVehiclesChanged publishes a VehiclesChanged event. Publish failures
// are logged; the write that triggered the event has already succeeded.
func (b *Bus) NotifyVehiclesChanged(ctx context.Context, source string, count int) {
	if b == nil {
		return
	}
	event := VehiclesChanged{Source: source, Count: count, OccurredAt: time.Now().UTC()}
	if err := b.Publish(ctx, TopicVehiclesChanged, &event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("source", source).Msg("Failed to publish vehicles changed event")
	}
}

// Serve runs the router until ctx is canceled. It implements suture.Service.
// A router cannot be restarted, so an unexpected stop is not retried.
func (b *Bus) Serve(ctx context.Context) error {
	err := b.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("event router stopped: %w: %w", err, suture.ErrDoNotRestart)
	}
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer for suture logging.
func (b *Bus) String() string {
	return "event-bus"
}

// Running is closed once the router has subscribed every handler.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Close stops the router and the pub/sub. It is safe to call more than once.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	routerErr := b.router.Close()
	pubSubErr := b.pubSub.Close()
	return errors.Join(routerErr, pubSubErr)
}

func (b *Bus) logPoisoned(msg *message.Message) error {
	logging.Error().
		Str("message_uuid", msg.UUID).
		Str("correlation_id", middleware.MessageCorrelationID(msg)).
		Str("reason", msg.Metadata.Get(middleware.ReasonForPoisonedKey)).
		Str("topic", msg.Metadata.Get(middleware.PoisonedTopicKey)).
		Str("handler", msg.Metadata.Get(middleware.PoisonedHandlerKey)).
		Msg("Event handler failed after retries, message dropped")
	return nil
}
