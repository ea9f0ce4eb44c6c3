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
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/carbonoffset/internal/config"
	"github.com/tomtom215/carbonoffset/internal/logging"
)

// Collection names.
const (
	VehiclesCollection = "vehicles"
	ContentCollection  = "contents"
	AuditCollection    = "audit_events"
)

const defaultConnectTimeout = 10 * time.Second

// DB wraps the MongoDB client and the application database handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    *config.MongoConfig
}

// Connect opens a client for cfg, verifies it with a ping and ensures the
// collection indexes exist.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*DB, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetAppName("carbonoffset")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	db := &DB{
		client: client,
		db:     client.Database(cfg.Database),
		cfg:    cfg,
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.closeQuietly()
		return nil, err
	}

	if err := db.EnsureIndexes(ctx); err != nil {
		db.closeQuietly()
		return nil, err
	}

	logging.Info().Str("database", cfg.Database).Msg("Connected to MongoDB")
	return db, nil
}

// Ping checks that the primary is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique vehicle key index, the content key index
// and the audit timestamp indexes. Existing indexes are left untouched.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	vehicleIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "year", Value: 1}, {Key: "make", Value: 1}, {Key: "model", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("year_make_model_unique"),
		},
		{
			Keys:    bson.D{{Key: "make", Value: 1}},
			Options: options.Index().SetName("make"),
		},
	}
	if _, err := db.db.Collection(VehiclesCollection).Indexes().CreateMany(ctx, vehicleIndexes); err != nil {
		return fmt.Errorf("failed to create vehicle indexes: %w", err)
	}

	contentIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("key_unique"),
	}
	if _, err := db.db.Collection(ContentCollection).Indexes().CreateOne(ctx, contentIndex); err != nil {
		return fmt.Errorf("failed to create content index: %w", err)
	}

	auditIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("timestamp"),
		},
		{
			Keys:    bson.D{{Key: "actor.name", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("actor_timestamp"),
		},
	}
	if _, err := db.db.Collection(AuditCollection).Indexes().CreateMany(ctx, auditIndexes); err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}
	return nil
}

// Vehicles returns the vehicle repository.
func (db *DB) Vehicles() *VehicleRepository {
	return NewVehicleRepository(db.db.Collection(VehiclesCollection))
}

// Content returns the content repository.
func (db *DB) Content() *ContentRepository {
	return NewContentRepository(db.db.Collection(ContentCollection))
}

// Audit returns the audit event repository.
func (db *DB) Audit() *AuditRepository {
	return NewAuditRepository(db.db.Collection(AuditCollection))
}

// Close disconnects the client.
func (db *DB) Close(ctx context.Context) error {
	if err := db.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

func (db *DB) closeQuietly() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = db.client.Disconnect(ctx) // best-effort cleanup on a failed connect
}
