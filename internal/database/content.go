// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/carbonoffset/internal/content"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

// ContentRepository stores content entries in the contents collection.
type ContentRepository struct {
	coll *mongo.Collection
}

var _ content.Store = (*ContentRepository)(nil)

// NewContentRepository returns a repository over coll.
func NewContentRepository(coll *mongo.Collection) *ContentRepository {
	return &ContentRepository{coll: coll}
}

// All returns every entry sorted by key.
func (r *ContentRepository) All(ctx context.Context) ([]content.Entry, error) {
	start := time.Now()
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		metrics.RecordDBOperation("find", ContentCollection, time.Since(start), err)
		return nil, fmt.Errorf("list content: %w", err)
	}

	entries := []content.Entry{}
	err = cur.All(ctx, &entries)
	metrics.RecordDBOperation("find", ContentCollection, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return entries, nil
}

// Get returns the entry for key or content.ErrNotFound.
func (r *ContentRepository) Get(ctx context.Context, key string) (*content.Entry, error) {
	start := time.Now()
	var e content.Entry
	err := r.coll.FindOne(ctx, bson.D{{Key: "key", Value: key}}).Decode(&e)
	metrics.RecordDBOperation("find_one", ContentCollection, time.Since(start), ignoreNotFound(err))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content %q: %w", key, err)
	}
	return &e, nil
}

// Upsert sets the content and timestamp for entry.Key, creating the document
// if needed, and returns the stored document.
func (r *ContentRepository) Upsert(ctx context.Context, entry content.Entry) (*content.Entry, error) {
	if entry.Key == "" {
		return nil, content.ErrEmptyKey
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: entry.Content},
		{Key: "updatedAt", Value: entry.UpdatedAt},
	}}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	start := time.Now()
	var out content.Entry
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "key", Value: entry.Key}}, update, opts).Decode(&out)
	metrics.RecordDBOperation("upsert", ContentCollection, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("upsert content %q: %w", entry.Key, translateError(err))
	}
	return &out, nil
}
