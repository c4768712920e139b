package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/core/ports"
)

type LocationRepository struct {
	coll *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{coll: db.Collection(collectionLocations)}
}

type mongoLocation struct {
	UserID *string   `bson:"user_id"`
	Device string    `bson:"device"`
	Lat    float64   `bson:"lat"`
	Lon    float64   `bson:"lon"`
	TS     time.Time `bson:"ts"`
}

func (r *LocationRepository) Insert(ctx context.Context, loc *domain.Location) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoLocation{
		UserID: loc.UserID,
		Device: loc.Device,
		Lat:    loc.Lat,
		Lon:    loc.Lon,
		TS:     loc.Timestamp.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return classify(fmt.Errorf("insert location: %w", err))
	}
	return nil
}

func (r *LocationRepository) List(ctx context.Context, f ports.LocationFilter) ([]domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, listFilter(f), options.Find().
		SetSort(bson.D{{Key: "ts", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(f.Limit)))
	if err != nil {
		return nil, classify(fmt.Errorf("find locations: %w", err))
	}
	defer cur.Close(ctx)

	out := make([]domain.Location, 0)
	for cur.Next(ctx) {
		var ml mongoLocation
		if err := cur.Decode(&ml); err != nil {
			return nil, fmt.Errorf("decode location: %w", err)
		}
		out = append(out, domain.Location{
			UserID:    ml.UserID,
			Device:    ml.Device,
			Lat:       ml.Lat,
			Lon:       ml.Lon,
			Timestamp: ml.TS.UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, classify(fmt.Errorf("find locations: %w", err))
	}
	return out, nil
}

func listFilter(f ports.LocationFilter) bson.M {
	filter := bson.M{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.Device != "" {
		filter["device"] = f.Device
	}
	return filter
}
