package reports

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "animal_condition_reports"

type mongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) Repo {
	return &mongoRepo{collection: db.Collection(Collection)}
}

func (r *mongoRepo) Save(ctx context.Context, rep *Report) error {
	_, err := r.collection.InsertOne(ctx, rep)
	return err
}

func (r *mongoRepo) List(ctx context.Context) ([]Report, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoRepo) ListByUser(ctx context.Context, userID string) ([]Report, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoRepo) Get(ctx context.Context, id string) (*Report, error) {
	var rep Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rep)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rep.ReportDate = rep.ReportDate.UTC()
	return &rep, nil
}

func (r *mongoRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepo) find(ctx context.Context, filter bson.M) ([]Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reportDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []Report{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].ReportDate = out[i].ReportDate.UTC()
	}
	return out, nil
}

// EnsureMongoIndexes creates the indexes List and ListByUser sort on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(Collection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "reportDate", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "reportDate", Value: -1}}},
	})
	return err
}
