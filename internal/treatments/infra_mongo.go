package treatments

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "hospital_treatments"

type mongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) Repo {
	return &mongoRepo{collection: db.Collection(Collection)}
}

func (r *mongoRepo) Save(ctx context.Context, t *Treatment) error {
	_, err := r.collection.InsertOne(ctx, t)
	return err
}

func (r *mongoRepo) List(ctx context.Context) ([]Treatment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "admissionDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []Treatment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].AdmissionDate = out[i].AdmissionDate.UTC()
	}
	return out, nil
}

func (r *mongoRepo) Get(ctx context.Context, id string) (*Treatment, error) {
	var t Treatment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.AdmissionDate = t.AdmissionDate.UTC()
	return &t, nil
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

// EnsureMongoIndexes creates the index List sorts on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "admissionDate", Value: -1}},
	})
	return err
}
