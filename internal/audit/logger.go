// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package audit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

// Config holds configuration for the audit logger.
type Config struct {
	// RetentionDays is how long to keep events. Zero keeps them forever.
	RetentionDays int

	// CleanupInterval is how often Serve enforces retention.
	CleanupInterval time.Duration

	// BufferSize is the size of the async write buffer.
	BufferSize int

	// LogToStdout also writes each event through the application logger.
	LogToStdout bool
}

// DefaultConfig returns 90 day retention with daily cleanup.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays:   90,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      1000,
	}
}

// Logger records audit events asynchronously. A nil *Logger discards
// everything, so handlers can call it unconditionally.
type Logger struct {
	config    *Config
	store     Store
	eventChan chan *Event
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewLogger starts the background writer for store.
func NewLogger(store Store, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	l := &Logger{
		config:    config,
		store:     store,
		eventChan: make(chan *Event, config.BufferSize),
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}

	l.wg.Add(1)
	go l.asyncWriter()

	return l
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

func (l *Logger) writeEvent(event *Event) {
	if l.config.LogToStdout {
		logging.Info().
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Str("outcome", string(event.Outcome)).
			Str("actor", event.Actor.Name).
			Str("description", event.Description).
			Msg("Audit event")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.store.Save(ctx, event); err != nil {
		logging.Error().Err(err).Str("event_id", event.ID).Msg("Failed to save audit event")
	}
}

// Log queues event, filling in ID and Timestamp when unset. It never blocks;
// a full buffer drops the event.
func (l *Logger) Log(event *Event) {
	if l == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now().UTC()
	}

	select {
	case l.eventChan <- event:
		metrics.RecordAuditEvent(string(event.Type), string(event.Outcome))
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().Str("event_id", event.ID).Msg("Audit event buffer full, dropping event")
	}
}

// Close flushes buffered events and stops the writer.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.stopOnce.Do(func() { close(l.stopChan) })
	l.wg.Wait()
	return nil
}

// Serve enforces retention until ctx is canceled. It implements
// suture.Service.
func (l *Logger) Serve(ctx context.Context) error {
	interval := l.config.CleanupInterval
	if interval <= 0 {
		interval = DefaultConfig().CleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.cleanup(ctx)
		}
	}
}

func (l *Logger) cleanup(ctx context.Context) {
	if l.config.RetentionDays <= 0 {
		return
	}
	cutoff := l.now().AddDate(0, 0, -l.config.RetentionDays)
	count, err := l.store.Delete(ctx, cutoff)
	if err != nil {
		logging.Error().Err(err).Msg("Audit cleanup error")
		return
	}
	if count > 0 {
		logging.Info().Int64("count", count).Msg("Cleaned up old audit events")
	}
}

// String implements fmt.Stringer for supervisor logs.
func (l *Logger) String() string {
	return "audit-retention"
}

// Query returns matching events, newest first.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter.Normalize())
}

// LogLogin records a login attempt. role is empty on failure.
func (l *Logger) LogLogin(r *http.Request, username, role string, success bool) {
	event := &Event{
		Type:        EventTypeAuthSuccess,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       Actor{Name: username, Role: role},
		Source:      SourceFromRequest(r),
		Description: "Login succeeded",
		RequestID:   logging.RequestIDFromContext(r.Context()),
	}
	if !success {
		event.Type = EventTypeAuthFailure
		event.Severity = SeverityWarning
		event.Outcome = OutcomeFailure
		event.Description = "Login failed"
	}
	l.Log(event)
}

// Record logs an action by the authenticated caller of r.
func (l *Logger) Record(r *http.Request, eventType EventType, outcome Outcome, target *Target, description string, metadata map[string]string) {
	if l == nil {
		return
	}
	severity := SeverityInfo
	if outcome == OutcomeFailure {
		severity = SeverityWarning
	}
	if eventType == EventTypeVehicleDeleted {
		severity = SeverityCritical
	}
	l.Log(&Event{
		Type:        eventType,
		Severity:    severity,
		Outcome:     outcome,
		Actor:       ActorFromRequest(r),
		Target:      target,
		Source:      SourceFromRequest(r),
		Description: description,
		Metadata:    metadata,
		RequestID:   logging.RequestIDFromContext(r.Context()),
	})
}

// SourceFromRequest reads the client address. The router's RealIP middleware
// has already applied X-Forwarded-For.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return Source{IPAddress: ip, UserAgent: r.UserAgent()}
}

// ActorFromRequest returns the JWT subject of r, or an anonymous actor.
func ActorFromRequest(r *http.Request) Actor {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		return Actor{Name: claims.Username, Role: claims.Role}
	}
	return Actor{Name: "anonymous"}
}
