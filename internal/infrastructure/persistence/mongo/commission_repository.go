// Package mongo stores commission documents in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/persistence/db"
)

// CollectionName is the collection holding commission documents.
const CollectionName = "commissions"

// Connect opens a client and verifies the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

type CommissionRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewCommissionRepository(client *mongo.Client, database string) *CommissionRepository {
	return &CommissionRepository{client: client, coll: client.Database(database).Collection(CollectionName)}
}

// EnsureIndexes creates the owner lookup index.
func (r *CommissionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

func (r *CommissionRepository) GetByID(ctx context.Context, id domain.CommissionID) (*domain.Commission, error) {
	var doc db.CommissionDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.ToDomain()
}

func (r *CommissionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Commission, error) {
	return r.find(ctx, bson.D{{Key: "owner_id", Value: ownerID}})
}

func (r *CommissionRepository) List(ctx context.Context) ([]*domain.Commission, error) {
	return r.find(ctx, bson.D{})
}

func (r *CommissionRepository) find(ctx context.Context, filter bson.D) ([]*domain.Commission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []db.CommissionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Commission, 0, len(docs))
	for _, d := range docs {
		c, err := d.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *CommissionRepository) Create(ctx context.Context, c *domain.Commission) error {
	_, err := r.coll.InsertOne(ctx, db.FromCommission(c))
	if mongo.IsDuplicateKeyError(err) {
		return domerrors.ErrConflict
	}
	return err
}

func (r *CommissionRepository) Replace(ctx context.Context, id domain.CommissionID, description string, status domain.Status, updatedAt time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "description", Value: description},
			{Key: "status", Value: string(status)},
			{Key: "updated_at", Value: updatedAt.UTC()},
		}},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domerrors.ErrCommissionNotFound
	}
	return nil
}

func (r *CommissionRepository) Delete(ctx context.Context, id domain.CommissionID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *CommissionRepository) AppendUpdate(ctx context.Context, id domain.CommissionID, u domain.Update, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, bson.D{
		{Key: "$push", Value: bson.D{{Key: "updates", Value: db.FromUpdate(u)}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: at.UTC()}}},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domerrors.ErrCommissionNotFound
	}
	return nil
}

func (r *CommissionRepository) Save(ctx context.Context, c *domain.Commission) error {
	doc := db.FromCommission(c)
	doc.Version = c.Version + 1
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}, {Key: "version", Value: c.Version}}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: doc.ID}})
		if err != nil {
			return err
		}
		if n == 0 {
			return domerrors.ErrCommissionNotFound
		}
		return domerrors.ErrConflict
	}
	c.Version = doc.Version
	return nil
}

func (r *CommissionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

var _ ports.CommissionRepository = (*CommissionRepository)(nil)
