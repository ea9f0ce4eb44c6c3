// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/carbonoffset/internal/audit"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

// AuditRepository stores audit events in the audit_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

var _ audit.Store = (*AuditRepository)(nil)

// NewAuditRepository returns a repository over coll.
func NewAuditRepository(coll *mongo.Collection) *AuditRepository {
	return &AuditRepository{coll: coll}
}

// Save inserts event.
func (r *AuditRepository) Save(ctx context.Context, event *audit.Event) error {
	start := time.Now()
	_, err := r.coll.InsertOne(ctx, event)
	metrics.RecordDBOperation("insert", AuditCollection, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Query returns matching events, newest first.
func (r *AuditRepository) Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	filter = filter.Normalize()

	q := bson.D{}
	if len(filter.Types) > 0 {
		q = append(q, bson.E{Key: "type", Value: bson.D{{Key: "$in", Value: filter.Types}}})
	}
	if filter.Actor != "" {
		q = append(q, bson.E{Key: "actor.name", Value: filter.Actor})
	}
	if filter.Outcome != "" {
		q = append(q, bson.E{Key: "outcome", Value: filter.Outcome})
	}
	if !filter.Since.IsZero() {
		q = append(q, bson.E{Key: "timestamp", Value: bson.D{{Key: "$gte", Value: filter.Since}}})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(filter.Limit))

	start := time.Now()
	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		metrics.RecordDBOperation("find", AuditCollection, time.Since(start), err)
		return nil, fmt.Errorf("query audit events: %w", err)
	}

	events := []audit.Event{}
	err = cur.All(ctx, &events)
	metrics.RecordDBOperation("find", AuditCollection, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}
	return events, nil
}

// Delete removes events older than olderThan.
func (r *AuditRepository) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	start := time.Now()
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "timestamp", Value: bson.D{{Key: "$lt", Value: olderThan}}}})
	metrics.RecordDBOperation("delete_many", AuditCollection, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("delete audit events: %w", err)
	}
	return res.DeletedCount, nil
}
