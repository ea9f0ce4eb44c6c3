// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/carbonoffset/internal/catalog"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

// DefaultBatchSize is the number of upserts sent per bulk write.
const DefaultBatchSize = 1000

// Pagination limits for the admin vehicle list.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// ErrInvalidSort is returned when a list request names an unknown sort column.
var ErrInvalidSort = errors.New("invalid sort column")

// sortableColumns are the vehicle fields the admin list can be ordered by.
var sortableColumns = map[string]bool{
	"year":         true,
	"make":         true,
	"model":        true,
	"mpg_combined": true,
	"mpg_city":     true,
	"mpg_highway":  true,
	"fuel_type":    true,
	"cylinders":    true,
	"displacement": true,
	"transmission": true,
	"drive_type":   true,
}

// optionalFields are unset on upsert when the incoming vehicle lacks them, so
// the stored document always mirrors the latest row.
var optionalFields = []string{
	"mpg_city", "mpg_highway", "fuel_type", "cylinders",
	"displacement", "transmission", "drive_type",
}

// StoredVehicle is a vehicle document with its MongoDB identifier.
type StoredVehicle struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	catalog.Vehicle `bson:",inline"`
}

// ListOptions controls pagination and ordering of the admin vehicle list.
type ListOptions struct {
	Page  int    // 1-based
	Limit int    // page size
	Sort  string // primary sort column, defaults to "year"
	Desc  bool   // primary sort direction
}

// normalize applies defaults and bounds.
func (o *ListOptions) normalize() error {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = DefaultPageLimit
	}
	if o.Limit > MaxPageLimit {
		o.Limit = MaxPageLimit
	}
	if o.Sort == "" {
		o.Sort = "year"
	}
	if !sortableColumns[o.Sort] {
		return fmt.Errorf("%w: %q", ErrInvalidSort, o.Sort)
	}
	return nil
}

// sortSpec builds the primary sort followed by make asc, year desc and model
// asc, skipping whichever of those is already the primary column.
func (o *ListOptions) sortSpec() bson.D {
	dir := 1
	if o.Desc {
		dir = -1
	}
	spec := bson.D{{Key: o.Sort, Value: dir}}
	for _, s := range []bson.E{
		{Key: "make", Value: 1},
		{Key: "year", Value: -1},
		{Key: "model", Value: 1},
	} {
		if s.Key != o.Sort {
			spec = append(spec, s)
		}
	}
	return spec
}

// ListResult is one page of the admin vehicle list.
type ListResult struct {
	Vehicles   []StoredVehicle `json:"vehicles"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// VehicleRepository stores vehicles in the vehicles collection.
type VehicleRepository struct {
	coll *mongo.Collection
}

var _ catalog.Lookup = (*VehicleRepository)(nil)

// NewVehicleRepository returns a repository over coll.
func NewVehicleRepository(coll *mongo.Collection) *VehicleRepository {
	return &VehicleRepository{coll: coll}
}

func keyFilter(v *catalog.Vehicle) bson.D {
	return bson.D{{Key: "year", Value: v.Year}, {Key: "make", Value: v.Make}, {Key: "model", Value: v.Model}}
}

// upsertUpdate sets every present field and unsets absent optional ones.
func upsertUpdate(v *catalog.Vehicle) bson.D {
	update := bson.D{{Key: "$set", Value: v}}

	present := map[string]bool{
		"mpg_city":     v.MPGCity != nil,
		"mpg_highway":  v.MPGHighway != nil,
		"fuel_type":    v.FuelType != nil,
		"cylinders":    v.Cylinders != nil,
		"displacement": v.Displacement != nil,
		"transmission": v.Transmission != nil,
		"drive_type":   v.DriveType != nil,
	}
	unset := bson.D{}
	for _, f := range optionalFields {
		if !present[f] {
			unset = append(unset, bson.E{Key: f, Value: ""})
		}
	}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update
}

// BulkUpsert writes vehicles keyed on (year, make, model) in ordered batches
// of batchSize. Later entries overwrite earlier ones with the same key. It
// returns the number of vehicles written.
func (r *VehicleRepository) BulkUpsert(ctx context.Context, vehicles []catalog.Vehicle, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	written := 0
	for start := 0; start < len(vehicles); start += batchSize {
		end := min(start+batchSize, len(vehicles))

		models := make([]mongo.WriteModel, 0, end-start)
		for i := start; i < end; i++ {
			v := &vehicles[i]
			models = append(models, mongo.NewUpdateOneModel().
				SetFilter(keyFilter(v)).
				SetUpdate(upsertUpdate(v)).
				SetUpsert(true))
		}

		opStart := time.Now()
		_, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
		metrics.RecordDBOperation("bulk_upsert", VehiclesCollection, time.Since(opStart), err)
		if err != nil {
			return written, fmt.Errorf("bulk upsert batch %d: %w", start/batchSize+1, err)
		}
		metrics.RecordSyncBatch(end - start)
		written += end - start

		logging.Ctx(ctx).Debug().
			Int("batch", start/batchSize+1).
			Int("size", end-start).
			Msg("Vehicle batch upserted")
	}
	return written, nil
}

// List returns one page of vehicles.
func (r *VehicleRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	start := time.Now()
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		metrics.RecordDBOperation("count", VehiclesCollection, time.Since(start), err)
		return nil, fmt.Errorf("count vehicles: %w", err)
	}

	findOpts := options.Find().
		SetSort(opts.sortSpec()).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cur, err := r.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		metrics.RecordDBOperation("find", VehiclesCollection, time.Since(start), err)
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	vehicles := []StoredVehicle{}
	err = cur.All(ctx, &vehicles)
	metrics.RecordDBOperation("find", VehiclesCollection, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}

	totalPages := int((total + int64(opts.Limit) - 1) / int64(opts.Limit))
	return &ListResult{
		Vehicles:   vehicles,
		Total:      total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
	}, nil
}

// Get returns the vehicle with the given id.
func (r *VehicleRepository) Get(ctx context.Context, id string) (*StoredVehicle, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var v StoredVehicle
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&v)
	metrics.RecordDBOperation("find_one", VehiclesCollection, time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, translateError(err)
	}
	return &v, nil
}

// Create inserts a new vehicle. A vehicle with the same key already present
// yields ErrDuplicate.
func (r *VehicleRepository) Create(ctx context.Context, v *catalog.Vehicle) (*StoredVehicle, error) {
	start := time.Now()
	res, err := r.coll.InsertOne(ctx, v)
	metrics.RecordDBOperation("insert", VehiclesCollection, time.Since(start), err)
	if err != nil {
		return nil, translateError(err)
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return &StoredVehicle{ID: oid, Vehicle: *v}, nil
}

// Update replaces the vehicle with the given id.
func (r *VehicleRepository) Update(ctx context.Context, id string, v *catalog.Vehicle) (*StoredVehicle, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, v)
	metrics.RecordDBOperation("replace", VehiclesCollection, time.Since(start), err)
	if err != nil {
		return nil, translateError(err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &StoredVehicle{ID: oid, Vehicle: *v}, nil
}

// Delete removes the vehicle with the given id.
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	metrics.RecordDBOperation("delete", VehiclesCollection, time.Since(start), err)
	if err != nil {
		return translateError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored vehicles.
func (r *VehicleRepository) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	metrics.RecordDBOperation("count", VehiclesCollection, time.Since(start), err)
	return n, err
}

// AllMakes returns every distinct make across all years, sorted.
func (r *VehicleRepository) AllMakes(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "make", bson.D{})
}

// ListYears returns the distinct stored years, newest first.
func (r *VehicleRepository) ListYears(ctx context.Context) ([]int, error) {
	start := time.Now()
	raw, err := r.coll.Distinct(ctx, "year", bson.D{})
	metrics.RecordDBOperation("distinct", VehiclesCollection, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("distinct years: %w", err)
	}

	years := make([]int, 0, len(raw))
	for _, v := range raw {
		switch y := v.(type) {
		case int32:
			years = append(years, int(y))
		case int64:
			years = append(years, int(y))
		case float64:
			years = append(years, int(y))
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// ListMakes returns the makes stored for year, sorted.
func (r *VehicleRepository) ListMakes(ctx context.Context, year int) ([]string, error) {
	return r.distinctStrings(ctx, "make", bson.D{{Key: "year", Value: year}})
}

// ListModels returns the vehicles stored for year and make, sorted by model.
func (r *VehicleRepository) ListModels(ctx context.Context, year int, vehicleMake string) ([]catalog.Vehicle, error) {
	start := time.Now()
	filter := bson.D{{Key: "year", Value: year}, {Key: "make", Value: vehicleMake}}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "model", Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})

	cur, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		metrics.RecordDBOperation("find", VehiclesCollection, time.Since(start), err)
		return nil, fmt.Errorf("find models: %w", err)
	}
	vehicles := []catalog.Vehicle{}
	err = cur.All(ctx, &vehicles)
	metrics.RecordDBOperation("find", VehiclesCollection, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	catalog.SortByModel(vehicles)
	return vehicles, nil
}

func (r *VehicleRepository) distinctStrings(ctx context.Context, field string, filter bson.D) ([]string, error) {
	start := time.Now()
	raw, err := r.coll.Distinct(ctx, field, filter)
	metrics.RecordDBOperation("distinct", VehiclesCollection, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}
